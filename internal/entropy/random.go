// Package entropy provides the seedable random source behind every
// stochastic rule in the simulation. A fixed seed reproduces a run;
// seed 0 draws a starting seed from crypto/rand.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"
	"sync"
)

// Source wraps a seeded generator with the draw shapes the engines use.
// Safe for concurrent use.
type Source struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewSource creates a random source. Seed 0 means "pick one".
func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = cryptoSeed()
	}
	return &Source{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FloatRange returns a uniform float64 in [min, max).
func (s *Source) FloatRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Float()*(max-min)
}

// Int returns a uniform int in [min, max] inclusive.
func (s *Source) Int(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min+1)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float() < p
}

// Normal returns a normally distributed float64.
func (s *Source) Normal(mean, stddev float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()*stddev + mean
}

// Shuffle randomizes element order via the swap function.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// Choice returns a uniformly chosen element, or the zero value for an
// empty slice.
func Choice[T any](s *Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[s.Int(0, len(items)-1)]
}

// Sample returns up to n elements chosen without replacement. The input
// slice is not modified.
func Sample[T any](s *Source, items []T, n int) []T {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	picked := make([]T, len(items))
	copy(picked, items)
	s.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if n > len(picked) {
		n = len(picked)
	}
	return picked[:n]
}

// WeightedIndex picks an index with probability proportional to its
// weight. Non-positive total weight falls back to index 0.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 || len(weights) == 0 {
		return 0
	}
	roll := s.Float() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		roll -= w
		if roll <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// cryptoSeed derives a seed from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	n := binary.LittleEndian.Uint64(buf[:]) & math.MaxInt64
	if n == 0 {
		n = 1
	}
	return int64(n)
}
