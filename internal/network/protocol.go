package network

import "encoding/json"

// Message is the envelope for everything sent over the websocket.
// Type routes the message; Payload is decoded by whoever handles that type.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	MaxMessageSize = 64 * 1024

	TypeStateUpdate = "STATE_UPDATE"
	TypeError       = "ERROR"
)

// NewMessage marshals payload into a Message of the given type.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// ErrorMessage builds an ERROR message carrying {"error": text}.
func ErrorMessage(text string) Message {
	msg, _ := NewMessage(TypeError, map[string]string{"error": text})
	return msg
}
