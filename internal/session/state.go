package session

import (
	"geeksounds/internal/game/player"
	"geeksounds/internal/game/sound"
)

// State is the observable phase of a game session.
type State string

const (
	StateWaiting  State = "WAITING"  // between sounds, PLAY is expected next
	StatePlaying  State = "PLAYING"  // a sound is being played
	StateGuessing State = "GUESSING" // sound stopped, waiting for the host to pick a player
	StateFinished State = "FINISHED"
)

// Session is the live game record. Only Engine mutates it.
type Session struct {
	ID           string
	State        State
	Players      []*player.Player
	CurrentSound string
	PlayedSounds []string
	Available    sound.Pool
	BonusRound   bool
}

func newSession() *Session {
	return &Session{
		State:        StateWaiting,
		Players:      []*player.Player{},
		PlayedSounds: []string{},
		Available:    sound.Pool{},
	}
}

func (s *Session) findPlayer(name string) *player.Player {
	for _, p := range s.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// topScore returns the highest score and how many players share it.
func (s *Session) topScore() (maxScore, tied int) {
	for i, p := range s.Players {
		switch {
		case i == 0 || p.Score > maxScore:
			maxScore, tied = p.Score, 1
		case p.Score == maxScore:
			tied++
		}
	}
	return maxScore, tied
}
