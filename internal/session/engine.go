package session

import (
	"log"
	"sync"

	"geeksounds/internal/game/player"
	"geeksounds/internal/game/sound"

	"github.com/google/uuid"
)

// RosterSource supplies the player names used by StartGame, in turn order.
type RosterSource interface {
	Roster() []string
}

// StaticRoster is a fixed list of names, typically read from configuration.
type StaticRoster []string

func (r StaticRoster) Roster() []string {
	out := make([]string, len(r))
	copy(out, r)
	return out
}

// Engine owns the single game session and is the only code that mutates it.
// Every mutating operation holds the write lock for its whole cascade,
// including a pool reload, so readers never see a half-applied transition.
//
// Operations are deliberately permissive about the current state: any of them
// may be called at any time and will leave the session well defined.
type Engine struct {
	mu      sync.RWMutex
	session *Session

	catalog sound.Catalog
	rng     sound.RandomSource
	roster  RosterSource
	newID   func() string
}

func NewEngine(catalog sound.Catalog, rng sound.RandomSource, roster RosterSource) *Engine {
	if roster == nil {
		roster = StaticRoster(nil)
	}
	return &Engine{
		session: newSession(),
		catalog: catalog,
		rng:     rng,
		roster:  roster,
		newID:   uuid.NewString,
	}
}

// ============================================================================
// Game operations
// ============================================================================

// StartGame discards the current session and begins a new one from the
// roster and the standard catalog.
func (e *Engine) StartGame() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := newSession()
	s.ID = e.newID()
	s.Players = player.Roster(e.roster.Roster())
	for _, p := range s.Players {
		p.ResetScore()
	}
	e.session = s
	e.loadPool(sound.Standard)

	log.Printf("[Engine] Session %s started with %d players and %d sounds.", s.ID, len(s.Players), s.Available.Size())
	return s.snapshot()
}

// PlaySound draws the next sound. ok is false when the pool is exhausted, in
// which case the session is left untouched.
func (e *Engine) PlaySound() (id string, ok bool) {
	id, _, ok = e.DrawSound()
	return id, ok
}

// DrawSound is PlaySound plus the snapshot taken under the same lock, so the
// caller reports the state its own draw produced.
func (e *Engine) DrawSound() (id string, snap Snapshot, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if s.Available.Size() == 0 {
		return "", s.snapshot(), false
	}
	id, err := s.Available.Draw(e.rng)
	if err != nil {
		log.Printf("[Engine] ERROR: Failed to draw a sound: %v", err)
		return "", s.snapshot(), false
	}

	s.CurrentSound = id
	s.PlayedSounds = append(s.PlayedSounds, id)
	s.State = StatePlaying
	return id, s.snapshot(), true
}

// StopSound moves to the guessing phase; the current sound is kept.
func (e *Engine) StopSound() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.State = StateGuessing
	return e.session.snapshot()
}

// SkipSound abandons the current sound without scoring.
func (e *Engine) SkipSound() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.CurrentSound = ""
	e.poolCheck()
	return e.session.snapshot()
}

// Guess awards a point to name and moves on. Unknown names score nothing
// but still advance the game.
func (e *Engine) Guess(name string) Snapshot {
	snap, _ := e.GuessSound(name)
	return snap
}

// GuessSound is Guess plus the sound the guess resolved, "" when no sound was
// selected. Of two concurrent guesses only the first gets the sound.
func (e *Engine) GuessSound(name string) (snap Snapshot, soundID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	soundID = s.CurrentSound
	if p := s.findPlayer(name); p != nil {
		p.IncrementScore()
	} else {
		log.Printf("[Engine] WARN: Guess for unknown player %q ignored.", name)
	}

	s.CurrentSound = ""
	e.poolCheck()
	return s.snapshot(), soundID
}

// ============================================================================
// Queries
// ============================================================================

func (e *Engine) GetState() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.snapshot()
}

func (e *Engine) GetLeaderboard() []PlayerScore {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Leaderboard(scores(e.session.Players))
}

// CurrentSound reports the sound being played or guessed, if any.
func (e *Engine) CurrentSound() (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.CurrentSound, e.session.CurrentSound != ""
}

// ============================================================================
// Transitions. Callers hold e.mu.
// ============================================================================

func (e *Engine) poolCheck() {
	if e.session.Available.Size() > 0 {
		e.session.State = StateWaiting
		return
	}
	e.endEvaluation()
}

// endEvaluation runs once the pool is empty. A tie for first place earns a
// single bonus round per session; anything else finishes the game.
func (e *Engine) endEvaluation() {
	s := e.session
	if len(s.Players) == 0 {
		s.State = StateFinished
		log.Printf("[Engine] Session %s finished without players.", s.ID)
		return
	}

	maxScore, tied := s.topScore()
	if tied > 1 && !s.BonusRound {
		s.BonusRound = true
		e.loadPool(sound.Bonus)
		s.State = StateWaiting
		log.Printf("[Engine] Session %s: %d players tied at %d, bonus round with %d sounds.", s.ID, tied, maxScore, s.Available.Size())
		return
	}

	s.State = StateFinished
	log.Printf("[Engine] Session %s finished. Top score %d shared by %d player(s).", s.ID, maxScore, tied)
}

// loadPool starts a new pool generation. Catalog failures leave the pool
// empty, which makes the next PlaySound report exhaustion.
func (e *Engine) loadPool(key sound.CatalogKey) {
	s := e.session
	s.PlayedSounds = []string{}
	s.Available = sound.Pool{}

	if e.catalog == nil {
		return
	}
	ids, err := e.catalog.List(key)
	if err != nil {
		log.Printf("[Engine] WARN: Failed to load %s catalog, continuing with an empty pool: %v", key, err)
		return
	}
	s.Available = sound.NewPool(ids)
}
