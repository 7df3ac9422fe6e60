// Package entropy provides seeded, replayable randomness for event draws and
// competitor drift. Only seed selection touches crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand/v2"
)

// Source is a deterministic random stream. The same seed always yields the
// same sequence. A Source is not safe for concurrent use.
type Source struct {
	seed int64
	rng  *mrand.Rand
}

// New returns a Source for seed. Seed 0 picks a fresh random seed.
func New(seed int64) *Source {
	if seed == 0 {
		seed = RandomSeed()
	}
	return &Source{
		seed: seed,
		rng:  mrand.New(mrand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed this source was built from.
func (s *Source) Seed() int64 { return s.seed }

// Float returns a value in [0, 1).
func (s *Source) Float() float64 { return s.rng.Float64() }

// Intn returns a value in [0, n). n <= 0 returns 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.Float() < p
}

// Shuffle permutes n elements via swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// RandomSeed draws a non-zero seed from crypto/rand.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed seed.
		slog.Warn("crypto seed unavailable, using fixed seed", "error", err)
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
