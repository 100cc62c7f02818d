package sound

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource yields a uniformly distributed index in [0, n). Callers must
// only invoke it with n > 0.
type RandomSource interface {
	UniformIndex(n int) int
}

// PCGSource is the default RandomSource. It wraps a PCG generator behind a
// mutex so a single source can be shared between goroutines.
type PCGSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPCGSource creates a PCG backed source. A zero seed asks for a fresh
// random seed.
func NewPCGSource(seed uint64) *PCGSource {
	if seed == 0 {
		seed = newSeed()
	}
	return &PCGSource{rng: rand.New(rand.NewPCG(seed, 1))}
}

func (s *PCGSource) UniformIndex(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func newSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
