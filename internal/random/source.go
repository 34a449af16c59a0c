package random

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source yields uniform integers in an inclusive range.
type Source interface {
	Intn(low, high int) int
}

// PCG is a seedable Source safe for concurrent use.
type PCG struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a deterministic source for the given seed.
// A zero seed is replaced with the current time.
func New(seed uint64) *PCG {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &PCG{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a value in [low, high]. Bounds are swapped if given in reverse.
func (p *PCG) Intn(low, high int) int {
	if low > high {
		low, high = high, low
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return low + p.rng.IntN(high-low+1)
}
