package simulation

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Rand is the per-trajectory random stream.
type Rand interface {
	Float64() float64
}

// RandomSource hands out one independent stream per trajectory index, so
// running trajectories in parallel cannot change their draws.
type RandomSource interface {
	Trajectory(index int) Rand
}

// SeededSource derives every trajectory stream from Seed.
type SeededSource struct {
	Seed int64
}

// Trajectory returns the PCG stream (Seed, index).
func (s SeededSource) Trajectory(index int) Rand {
	return rand.New(rand.NewPCG(uint64(s.Seed), uint64(index)))
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRandomSource returns an unseeded production source. The chosen seed is
// exposed on the returned SeededSource so the run can be replayed.
func NewRandomSource() (SeededSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return SeededSource{}, err
	}
	return SeededSource{Seed: seed}, nil
}

// uniform draws from U(-m, m).
func uniform(r Rand, m float64) float64 {
	return (r.Float64()*2 - 1) * m
}
