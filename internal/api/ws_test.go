package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geeksounds/internal/game/sound"
	"geeksounds/internal/network"
	"geeksounds/internal/session"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startScreen(t *testing.T) *websocket.Conn {
	t.Helper()
	catalog := sound.StaticCatalog{
		sound.Standard: {"a.mp3", "b.mp3"},
		sound.Bonus:    {"x.mp3"},
	}
	engine := session.NewEngine(catalog, firstIndex{}, session.StaticRoster{"Alice", "Bob"})

	hub := network.NewHub(nil)
	server := NewServer(engine, nil, hub, nil, Branding{})
	hub.SetHandler(NewScreenHandler(server))
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) network.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg network.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readSnapshot(t *testing.T, conn *websocket.Conn) session.Snapshot {
	t.Helper()
	msg := read(t, conn)
	require.Equal(t, network.TypeStateUpdate, msg.Type)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	return snap
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	msg, err := network.NewMessage(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestScreenReceivesStateOnConnect(t *testing.T) {
	conn := startScreen(t)
	snap := readSnapshot(t, conn)
	assert.Equal(t, session.StateWaiting, snap.State)
	assert.Empty(t, snap.SessionID)
}

func TestScreenDrivesGame(t *testing.T) {
	conn := startScreen(t)
	readSnapshot(t, conn)

	send(t, conn, "START", nil)
	snap := readSnapshot(t, conn)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, 2, snap.AvailableCount)

	send(t, conn, "PLAY", nil)
	msg := read(t, conn)
	require.Equal(t, "SOUND", msg.Type)
	var play PlayResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &play))
	assert.Equal(t, "a.mp3", play.Sound)
	assert.Equal(t, "/api/game/sound/a.mp3", play.SoundURL)
	assert.Equal(t, session.StatePlaying, readSnapshot(t, conn).State)

	send(t, conn, "STOP", nil)
	assert.Equal(t, session.StateGuessing, readSnapshot(t, conn).State)

	send(t, conn, "GUESS", GuessRequest{PlayerName: "Bob"})
	snap = readSnapshot(t, conn)
	assert.Equal(t, session.StateWaiting, snap.State)
	assert.Equal(t, []session.PlayerScore{{Name: "Alice", Score: 0}, {Name: "Bob", Score: 1}}, snap.Players)

	send(t, conn, "PLAY", nil)
	assert.Equal(t, "SOUND", read(t, conn).Type)
	readSnapshot(t, conn)

	// Bob leads alone, so no bonus round
	send(t, conn, "SKIP", nil)
	assert.Equal(t, session.StateFinished, readSnapshot(t, conn).State)

	send(t, conn, "PLAY", nil)
	msg = read(t, conn)
	assert.Equal(t, network.TypeError, msg.Type)
	assert.Contains(t, string(msg.Payload), "No more sounds available")

	send(t, conn, "STATE", nil)
	assert.Equal(t, session.StateFinished, readSnapshot(t, conn).State)
}

func TestScreenRejectsBadCommands(t *testing.T) {
	conn := startScreen(t)
	readSnapshot(t, conn)

	send(t, conn, "DANCE", nil)
	msg := read(t, conn)
	assert.Equal(t, network.TypeError, msg.Type)
	assert.Contains(t, string(msg.Payload), "Unknown command: DANCE")

	send(t, conn, "GUESS", nil)
	msg = read(t, conn)
	assert.Equal(t, network.TypeError, msg.Type)
	assert.Contains(t, string(msg.Payload), "Invalid payload for GUESS")
}
