package player

import "strings"

// Player is a roster member and their running score.
type Player struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

func (p *Player) IncrementScore() {
	p.Score++
}

func (p *Player) ResetScore() {
	p.Score = 0
}

// Roster builds the ordered player list for a new game. Names are trimmed,
// blanks dropped and repeats collapsed onto their first occurrence, since the
// name is the player's identity for scoring.
func Roster(names []string) []*Player {
	seen := make(map[string]struct{}, len(names))
	players := make([]*Player, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		players = append(players, NewPlayer(name))
	}
	return players
}
