package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"geeksounds/internal/assets"
	"geeksounds/internal/network"
	"geeksounds/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firstIndex struct{}

func (firstIndex) UniformIndex(int) int { return 0 }

type recordingHub struct {
	mu   sync.Mutex
	msgs []network.Message
}

func (h *recordingHub) Broadcast(msg network.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(eventType string, _ session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
}

func (p *recordingPublisher) Close() {}

type fixture struct {
	mux       *http.ServeMux
	hub       *recordingHub
	publisher *recordingPublisher
	dirs      assets.Dirs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	dirs := assets.Dirs{
		Sounds:      filepath.Join(root, "sounds"),
		BonusSounds: filepath.Join(root, "sounds", "bonus"),
		Images:      filepath.Join(root, "images"),
		WinJingles:  filepath.Join(root, "win"),
		LoseJingles: filepath.Join(root, "lose"),
	}
	for _, d := range []string{dirs.Sounds, dirs.BonusSounds, dirs.Images, dirs.WinJingles} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	write := func(dir, name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data:"+name), 0o644))
	}
	write(dirs.Sounds, "star_wars-theme.mp3")
	write(dirs.Sounds, "mario_coin.wav")
	write(dirs.BonusSounds, "zelda.ogg")
	write(dirs.Images, "Alice.png")
	write(dirs.WinJingles, "fanfare.mp3")

	catalog := assets.NewDirCatalog(dirs.Sounds, dirs.BonusSounds, time.Minute)
	engine := session.NewEngine(catalog, firstIndex{}, session.StaticRoster{"Alice", "Bob"})
	library := assets.NewLibrary(dirs, firstIndex{})

	f := &fixture{
		mux:       http.NewServeMux(),
		hub:       &recordingHub{},
		publisher: &recordingPublisher{},
		dirs:      dirs,
	}
	NewServer(engine, library, f.hub, f.publisher, Branding{CompanyName: "ACME", CompanySubtitle: "Sounds"}).Register(f.mux)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestFullGameOverHTTP(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/game/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	start := decode[StartResponse](t, rec)
	assert.Equal(t, "Game started!", start.Message)
	assert.Equal(t, session.StateWaiting, start.State.State)
	assert.Equal(t, 2, start.State.AvailableCount)
	assert.NotEmpty(t, start.State.SessionID)

	// catalog is sorted, firstIndex picks mario_coin.wav first
	play := decode[PlayResponse](t, f.do(t, http.MethodPost, "/api/game/play", ""))
	assert.Equal(t, "mario_coin.wav", play.Sound)
	assert.Equal(t, "/api/game/sound/mario_coin.wav", play.SoundURL)
	assert.Equal(t, session.StatePlaying, play.State)

	stop := decode[StateResponse](t, f.do(t, http.MethodPost, "/api/game/stop", ""))
	assert.Equal(t, session.StateGuessing, stop.State)
	assert.Equal(t, "Waiting for player selection", stop.Message)

	guess := decode[GuessResponse](t, f.do(t, http.MethodPost, "/api/game/guess", `{"playerName":"Alice"}`))
	assert.Equal(t, "Alice scored!", guess.Message)
	assert.Equal(t, "Mario Coin", guess.SoundName)
	assert.Equal(t, session.StateWaiting, guess.State)
	assert.Equal(t, []session.PlayerScore{{Name: "Alice", Score: 1}, {Name: "Bob", Score: 0}}, guess.Leaderboard)

	f.do(t, http.MethodPost, "/api/game/play", "")
	guess = decode[GuessResponse](t, f.do(t, http.MethodPost, "/api/game/guess", `{"playerName":"Bob"}`))
	assert.Equal(t, "Star Wars Theme", guess.SoundName)
	assert.Equal(t, session.StateWaiting, guess.State)

	state := decode[session.Snapshot](t, f.do(t, http.MethodGet, "/api/game/state", ""))
	assert.True(t, state.BonusRound)
	assert.Equal(t, 1, state.AvailableCount)

	play = decode[PlayResponse](t, f.do(t, http.MethodPost, "/api/game/play", ""))
	assert.Equal(t, "zelda.ogg", play.Sound)

	// bonus sounds are served from the bonus directory
	rec = f.do(t, http.MethodGet, "/api/game/sound/zelda.ogg", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/ogg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data:zelda.ogg", rec.Body.String())

	skip := decode[StateResponse](t, f.do(t, http.MethodPost, "/api/game/skip", ""))
	assert.Equal(t, session.StateFinished, skip.State)
	assert.Equal(t, "Sound skipped", skip.Message)

	play = decode[PlayResponse](t, f.do(t, http.MethodPost, "/api/game/play", ""))
	assert.Equal(t, "No more sounds available", play.Message)
	assert.Empty(t, play.Sound)

	board := decode[[]session.PlayerScore](t, f.do(t, http.MethodGet, "/api/game/leaderboard", ""))
	assert.Equal(t, []session.PlayerScore{{Name: "Alice", Score: 1}, {Name: "Bob", Score: 1}}, board)

	assert.Equal(t, []string{
		"game.started", "sound.played", "sound.stopped", "player.guessed",
		"sound.played", "player.guessed", "sound.played", "sound.skipped",
	}, f.publisher.types)
	assert.Len(t, f.hub.msgs, len(f.publisher.types))
	assert.Equal(t, network.TypeStateUpdate, f.hub.msgs[0].Type)
}

func TestGuessRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/game/guess", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "Invalid payload")
	assert.Empty(t, f.publisher.types)
}

func TestGuessWithoutSoundHasEmptyName(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/game/start", "")
	guess := decode[GuessResponse](t, f.do(t, http.MethodPost, "/api/game/guess", `{"playerName":"Nobody"}`))
	assert.Equal(t, "", guess.SoundName)
	assert.Equal(t, session.StateWaiting, guess.State)
}

func TestConcurrentGuessesReportTheSoundOnce(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/game/start", "")
	f.do(t, http.MethodPost, "/api/game/play", "")
	f.do(t, http.MethodPost, "/api/game/stop", "")

	var wg sync.WaitGroup
	names := make([]string, 2)
	for i, player := range []string{"Alice", "Bob"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/game/guess", strings.NewReader(`{"playerName":"`+player+`"}`))
			rec := httptest.NewRecorder()
			f.mux.ServeHTTP(rec, req)
			var resp GuessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err == nil {
				names[i] = resp.SoundName
			}
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"Mario Coin", ""}, names)
}

func TestConfigEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/game/config", "")
	assert.JSONEq(t, `{"companyName":"ACME","companySubtitle":"Sounds"}`, rec.Body.String())
}

func TestAssetEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/game/player-image/Alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = f.do(t, http.MethodGet, "/api/game/player-image/Bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/game/sound/mario_coin.wav", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="mario_coin.wav"`, rec.Header().Get("Content-Disposition"))

	rec = f.do(t, http.MethodGet, "/api/game/sound/..%5Csecret.mp3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/game/jingle/win", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "data:fanfare.mp3", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/game/jingle/lose", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWrongMethodIsRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/game/start", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSoundURLEscapes(t *testing.T) {
	assert.Equal(t, "/api/game/sound/my%20sound.mp3", SoundURL("my sound.mp3"))
}
