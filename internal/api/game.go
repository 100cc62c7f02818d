package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"geeksounds/internal/assets"
	"geeksounds/internal/events"
	"geeksounds/internal/game/sound"
	"geeksounds/internal/network"
	"geeksounds/internal/session"
)

const Prefix = "/api/game"

// Game is the set of engine operations the API drives.
type Game interface {
	StartGame() session.Snapshot
	DrawSound() (string, session.Snapshot, bool)
	StopSound() session.Snapshot
	SkipSound() session.Snapshot
	GuessSound(playerName string) (session.Snapshot, string)
	GetState() session.Snapshot
	GetLeaderboard() []session.PlayerScore
}

// Broadcaster pushes messages to every connected screen.
type Broadcaster interface {
	Broadcast(msg network.Message)
}

type Branding struct {
	CompanyName     string `json:"companyName"`
	CompanySubtitle string `json:"companySubtitle"`
}

// ============================================================================
// DTOs
// ============================================================================

type GuessRequest struct {
	PlayerName string `json:"playerName"`
}

type StartResponse struct {
	Message string           `json:"message"`
	State   session.Snapshot `json:"state"`
}

type PlayResponse struct {
	Sound    string        `json:"sound,omitempty"`
	SoundURL string        `json:"soundUrl,omitempty"`
	State    session.State `json:"state,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type StateResponse struct {
	State   session.State `json:"state"`
	Message string        `json:"message"`
}

type GuessResponse struct {
	Message     string                `json:"message"`
	SoundName   string                `json:"soundName"`
	State       session.State         `json:"state"`
	Leaderboard []session.PlayerScore `json:"leaderboard"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ============================================================================
// Handlers
// ============================================================================

type Server struct {
	game      Game
	library   *assets.Library
	hub       Broadcaster
	publisher events.Publisher
	branding  Branding
}

func NewServer(game Game, library *assets.Library, hub Broadcaster, publisher events.Publisher, branding Branding) *Server {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Server{
		game:      game,
		library:   library,
		hub:       hub,
		publisher: publisher,
		branding:  branding,
	}
}

// Register mounts every game route on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+Prefix+"/start", s.handleStart)
	mux.HandleFunc("POST "+Prefix+"/play", s.handlePlay)
	mux.HandleFunc("POST "+Prefix+"/stop", s.handleStop)
	mux.HandleFunc("POST "+Prefix+"/skip", s.handleSkip)
	mux.HandleFunc("POST "+Prefix+"/guess", s.handleGuess)
	mux.HandleFunc("GET "+Prefix+"/state", s.handleState)
	mux.HandleFunc("GET "+Prefix+"/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET "+Prefix+"/config", s.handleConfig)
	mux.HandleFunc("GET "+Prefix+"/player-image/{playerName}", s.handlePlayerImage)
	mux.HandleFunc("GET "+Prefix+"/sound/{filename}", s.handleSound)
	mux.HandleFunc("GET "+Prefix+"/jingle/{type}", s.handleJingle)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	snap := s.game.StartGame()
	s.notify(events.GameStarted, snap)
	writeJSON(w, http.StatusOK, StartResponse{Message: "Game started!", State: snap})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id, snap, ok := s.game.DrawSound()
	if !ok {
		writeJSON(w, http.StatusOK, PlayResponse{Message: "No more sounds available"})
		return
	}
	s.notify(events.SoundPlayed, snap)
	writeJSON(w, http.StatusOK, PlayResponse{
		Sound:    id,
		SoundURL: SoundURL(id),
		State:    snap.State,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	snap := s.game.StopSound()
	s.notify(events.SoundStopped, snap)
	writeJSON(w, http.StatusOK, StateResponse{State: snap.State, Message: "Waiting for player selection"})
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	snap := s.game.SkipSound()
	s.notify(events.SoundSkipped, snap)
	writeJSON(w, http.StatusOK, StateResponse{State: snap.State, Message: "Sound skipped"})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid payload: expecting {\"playerName\": \"...\"}"})
		return
	}

	snap, current := s.game.GuessSound(req.PlayerName)
	s.notify(events.PlayerGuessed, snap)

	writeJSON(w, http.StatusOK, GuessResponse{
		Message:     req.PlayerName + " scored!",
		SoundName:   sound.DisplayName(current),
		State:       snap.State,
		Leaderboard: session.Leaderboard(snap.Players),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.GetState())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.game.GetLeaderboard())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.branding)
}

func (s *Server) handlePlayerImage(w http.ResponseWriter, r *http.Request) {
	f, err := s.library.PlayerImage(r.PathValue("playerName"))
	if err != nil {
		writeAssetError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	serveFile(w, r, f)
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	f, err := s.library.SoundFile(s.game.GetState().BonusRound, r.PathValue("filename"))
	if err != nil {
		writeAssetError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+f.Name+`"`)
	serveFile(w, r, f)
}

func (s *Server) handleJingle(w http.ResponseWriter, r *http.Request) {
	f, err := s.library.RandomJingle(r.PathValue("type"))
	if err != nil {
		writeAssetError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+f.Name+`"`)
	serveFile(w, r, f)
}

// ============================================================================
// Helpers
// ============================================================================

// SoundURL is where the front-end fetches the audio of sound id.
func SoundURL(id string) string {
	return Prefix + "/sound/" + url.PathEscape(id)
}

// notify fans a snapshot out to the websocket screens and the event bus.
func (s *Server) notify(eventType string, snap session.Snapshot) {
	if s.hub != nil {
		msg, err := network.NewMessage(network.TypeStateUpdate, snap)
		if err != nil {
			log.Printf("[API] ERROR: Failed to encode snapshot: %v", err)
		} else {
			s.hub.Broadcast(msg)
		}
	}
	s.publisher.Publish(eventType, snap)
}

func serveFile(w http.ResponseWriter, r *http.Request, f assets.File) {
	w.Header().Set("Content-Type", f.ContentType)
	http.ServeFile(w, r, f.Path)
}

func writeAssetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assets.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, assets.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid name"})
	default:
		log.Printf("[API] ERROR: Asset lookup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] WARN: Failed to write response: %v", err)
	}
}
