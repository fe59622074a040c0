package analyzer

import (
	"math/rand/v2"
	"time"
)

// NewSource returns a PCG-backed Source. Equal seeds yield equal streams.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSource seeds from the wall clock, for callers that never asked for a seed.
func NewTimeSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

// uniform draws from [lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}
