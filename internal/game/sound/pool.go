package sound

import (
	"fmt"
	"strings"
)

// Pool holds the sound identifiers that have not been played yet in the
// current pool generation.
type Pool []string

// NewPool builds a pool from a catalog listing, dropping blank and repeated
// identifiers so every identifier can be drawn at most once.
func NewPool(ids []string) Pool {
	seen := make(map[string]struct{}, len(ids))
	p := make(Pool, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		p = append(p, id)
	}
	return p
}

// Size is safe to call on a nil pointer.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return len(*p)
}

// Draw removes and returns one identifier picked uniformly by r.
func (p *Pool) Draw(r RandomSource) (string, error) {
	n := p.Size()
	if n == 0 {
		return "", fmt.Errorf("pool is empty")
	}
	index := r.UniformIndex(n)
	if index < 0 || index >= n {
		return "", fmt.Errorf("random index %d out of range for pool of size %d", index, n)
	}
	id := (*p)[index]

	// keep the order of the remaining sounds
	*p = append((*p)[:index], (*p)[index+1:]...)
	return id, nil
}

func (p *Pool) Contains(id string) bool {
	if p == nil {
		return false
	}
	for _, s := range *p {
		if s == id {
			return true
		}
	}
	return false
}

// Items returns a copy of the remaining identifiers.
func (p *Pool) Items() []string {
	out := make([]string, p.Size())
	if p != nil {
		copy(out, *p)
	}
	return out
}

func (p *Pool) String() string {
	if p.Size() == 0 {
		return "(Empty)"
	}

	var sb strings.Builder
	sb.WriteString("--------------------\n")
	for i, id := range *p {
		sb.WriteString(fmt.Sprintf("[%d]: %s\n", i, id))
	}
	sb.WriteString("--------------------")
	return sb.String()
}
