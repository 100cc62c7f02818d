package session

import (
	"slices"

	"geeksounds/internal/game/player"
)

// PlayerScore is a read-only copy of a player's standing.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Snapshot is a read-only view of the session, detached from engine state.
// CurrentSound is empty when no sound is selected.
type Snapshot struct {
	SessionID      string        `json:"sessionId"`
	State          State         `json:"state"`
	BonusRound     bool          `json:"bonusRound"`
	CurrentSound   string        `json:"currentSound,omitempty"`
	Players        []PlayerScore `json:"players"`
	PlayedCount    int           `json:"playedCount"`
	AvailableCount int           `json:"availableCount"`
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		SessionID:      s.ID,
		State:          s.State,
		BonusRound:     s.BonusRound,
		CurrentSound:   s.CurrentSound,
		Players:        scores(s.Players),
		PlayedCount:    len(s.PlayedSounds),
		AvailableCount: s.Available.Size(),
	}
}

func scores(players []*player.Player) []PlayerScore {
	out := make([]PlayerScore, len(players))
	for i, p := range players {
		out[i] = PlayerScore{Name: p.Name, Score: p.Score}
	}
	return out
}

// Leaderboard orders players by score, highest first. Equal scores keep
// roster order.
func Leaderboard(players []PlayerScore) []PlayerScore {
	out := make([]PlayerScore, len(players))
	copy(out, players)
	slices.SortStableFunc(out, func(a, b PlayerScore) int {
		return b.Score - a.Score
	})
	return out
}
