package network

// EventHandler connects the hub to the game. All callbacks run on the hub's
// goroutine, one at a time.
type EventHandler interface {
	// OnConnect is called once a client is registered.
	OnConnect(c *Client)

	// OnDisconnect is called after a client has been unregistered.
	OnDisconnect(c *Client)

	// OnMessage is called for every message a client sends.
	OnMessage(c *Client, msg Message)
}
