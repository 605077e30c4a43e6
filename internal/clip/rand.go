package clip

import "math/rand/v2"

// Rand is the randomness source used by Selector.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns the process-wide math/rand/v2 source.
func DefaultRand() Rand { return globalRand{} }

// NewSeededRand returns a deterministic PCG-backed source.
func NewSeededRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}
