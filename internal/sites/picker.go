package sites

import (
	"math/rand/v2"
	"sync"
)

// LockedPicker serializes access to a *rand.Rand so one picker can serve
// concurrent requests.
type LockedPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a LockedPicker over a PCG source with the given seed.
func NewPicker(seed1, seed2 uint64) *LockedPicker {
	return &LockedPicker{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// IntN returns a pseudo-random int in [0, n).
func (p *LockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
