// Package events publishes game transitions so other services (scoreboards,
// stream overlays) can follow a game without polling the API.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"geeksounds/internal/session"

	"github.com/nats-io/nats.go"
)

const (
	GameStarted   = "game.started"
	SoundPlayed   = "sound.played"
	SoundStopped  = "sound.stopped"
	SoundSkipped  = "sound.skipped"
	PlayerGuessed = "player.guessed"
)

// Event is the JSON document published for every transition.
type Event struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId"`
	At        time.Time        `json:"at"`
	Snapshot  session.Snapshot `json:"snapshot"`
}

// Publisher delivers events. Implementations must not fail the game flow;
// delivery problems are their own to log.
type Publisher interface {
	Publish(eventType string, snap session.Snapshot)
	Close()
}

// NopPublisher discards everything. Used when no NATS server is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, session.Snapshot) {}
func (NopPublisher) Close()                           {}

// conn is the slice of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

type NATSPublisher struct {
	conn   conn
	prefix string
	now    func() time.Time
}

// Connect dials the NATS server at url and returns a publisher that sends
// events on "<prefix>.<event type>". An unreachable server is not an error:
// the connection keeps retrying in the background and buffers what is
// published meanwhile.
func Connect(url, prefix, clientName string) (*NATSPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[Events] WARN: Disconnected from NATS: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("[Events] Reconnected to NATS at %s.", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	return newNATSPublisher(nc, prefix), nc, nil
}

func newNATSPublisher(c conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: c, prefix: prefix, now: time.Now}
}

func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(eventType string, snap session.Snapshot) {
	data, err := json.Marshal(Event{
		Type:      eventType,
		SessionID: snap.SessionID,
		At:        p.now().UTC(),
		Snapshot:  snap,
	})
	if err != nil {
		log.Printf("[Events] ERROR: Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := p.conn.Publish(p.Subject(eventType), data); err != nil {
		log.Printf("[Events] WARN: Failed to publish %s event: %v", eventType, err)
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Printf("[Events] WARN: Drain failed: %v", err)
	}
}
