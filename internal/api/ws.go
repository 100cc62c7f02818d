package api

import (
	"encoding/json"
	"log"

	"geeksounds/internal/events"
	"geeksounds/internal/network"
)

// CommandHandlerFunc handles one websocket command.
type CommandHandlerFunc func(s *Server, c *network.Client, payload json.RawMessage)

// ScreenHandler lets game screens connected over the websocket drive the
// game with the same operations as the HTTP routes. It implements
// network.EventHandler.
type ScreenHandler struct {
	server *Server
	router map[string]CommandHandlerFunc
}

func NewScreenHandler(s *Server) *ScreenHandler {
	h := &ScreenHandler{
		server: s,
		router: make(map[string]CommandHandlerFunc),
	}
	h.router["START"] = cmdStart
	h.router["PLAY"] = cmdPlay
	h.router["STOP"] = cmdStop
	h.router["SKIP"] = cmdSkip
	h.router["GUESS"] = cmdGuess
	h.router["STATE"] = cmdState
	return h
}

// OnConnect sends the current state so a new screen can render right away.
func (h *ScreenHandler) OnConnect(c *network.Client) {
	sendState(h.server, c)
}

func (h *ScreenHandler) OnDisconnect(c *network.Client) {}

func (h *ScreenHandler) OnMessage(c *network.Client, msg network.Message) {
	handler, found := h.router[msg.Type]
	if !found {
		c.Send(network.ErrorMessage("Unknown command: " + msg.Type))
		return
	}
	handler(h.server, c, msg.Payload)
}

func cmdStart(s *Server, c *network.Client, _ json.RawMessage) {
	s.notify(events.GameStarted, s.game.StartGame())
}

func cmdPlay(s *Server, c *network.Client, _ json.RawMessage) {
	id, snap, ok := s.game.DrawSound()
	if !ok {
		c.Send(network.ErrorMessage("No more sounds available"))
		return
	}
	msg, err := network.NewMessage("SOUND", PlayResponse{Sound: id, SoundURL: SoundURL(id)})
	if err == nil {
		c.Send(msg)
	}
	s.notify(events.SoundPlayed, snap)
}

func cmdStop(s *Server, c *network.Client, _ json.RawMessage) {
	s.notify(events.SoundStopped, s.game.StopSound())
}

func cmdSkip(s *Server, c *network.Client, _ json.RawMessage) {
	s.notify(events.SoundSkipped, s.game.SkipSound())
}

func cmdGuess(s *Server, c *network.Client, payload json.RawMessage) {
	var req GuessRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.Send(network.ErrorMessage("Invalid payload for GUESS"))
		return
	}
	snap, _ := s.game.GuessSound(req.PlayerName)
	s.notify(events.PlayerGuessed, snap)
}

func cmdState(s *Server, c *network.Client, _ json.RawMessage) {
	sendState(s, c)
}

func sendState(s *Server, c *network.Client) {
	msg, err := network.NewMessage(network.TypeStateUpdate, s.game.GetState())
	if err != nil {
		log.Printf("[API] ERROR: Failed to encode snapshot: %v", err)
		return
	}
	c.Send(msg)
}
