package ident

import "math/rand"

// Source yields uniform random integers for identifier generation. It is an
// injection point so tests can drive generation deterministically.
type Source interface {
	// Int32Between returns a uniform value in the open interval (lo, hi).
	// The caller guarantees hi-lo >= 2.
	Int32Between(lo, hi int32) int32
}

type randSource struct {
	rng *rand.Rand
}

// NewSource returns a Source backed by math/rand with the given seed.
func NewSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Int32Between(lo, hi int32) int32 {
	span := int64(hi) - int64(lo) - 1
	return int32(int64(lo) + 1 + s.rng.Int63n(span))
}
