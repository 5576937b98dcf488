package random

import (
	"hash/maphash"
	"math/rand/v2"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// IntN returns a random int in [0, n)
	IntN(n int) int
}

// PCG implements Random on top of a seeded math/rand/v2 generator.
type PCG struct {
	r *rand.Rand
}

var _ Random = (*PCG)(nil)

// New creates a generator seeded from the runtime's hash seed.
func New() *PCG {
	return NewSeeded(new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64())
}

// NewSeeded creates a generator with a fixed seed, for reproducible fields.
func NewSeeded(seed1, seed2 uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (p *PCG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return p.r.IntN(n)
}
