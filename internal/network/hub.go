package network

import "log"

type clientMessage struct {
	client *Client
	msg    Message
}

// Hub keeps the set of connected screens and fans game updates out to them.
type Hub struct {
	// Accessed only by the Run goroutine.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage
	broadcast  chan Message
	quit       chan struct{}
	done       chan struct{}

	handler EventHandler
}

func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		broadcast:  make(chan Message, 64),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		handler:    handler,
	}
}

// SetHandler must be called before Run.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

// Broadcast queues msg for every connected client. It never blocks the
// caller; when the hub is saturated the update is dropped, since the next
// one supersedes it anyway.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("[Hub] WARN: Broadcast queue full, dropping %s.", msg.Type)
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	close(h.quit)
	<-h.done
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[Hub] Client %s connected. Total clients: %d", client.RemoteAddr(), len(h.clients))
			if h.handler != nil {
				h.handler.OnConnect(client)
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Printf("[Hub] Client %s disconnected. Total clients: %d", client.RemoteAddr(), len(h.clients))
			}

		case cm := <-h.incoming:
			// a dropped client may still have a message in flight
			if _, ok := h.clients[cm.client]; ok && h.handler != nil {
				h.handler.OnMessage(cm.client, cm.msg)
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// the client is not keeping up, let it reconnect
					log.Printf("[Hub] WARN: Client %s is too slow, dropping it.", client.RemoteAddr())
					h.drop(client)
				}
			}

		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// drop removes client and closes its send channel, which stops its writeLoop.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	if h.handler != nil {
		h.handler.OnDisconnect(client)
	}
}
