// Package entropy provides the single seeded random source for a simulation
// run. Every stochastic draw in a run flows through one Source in a fixed
// order, so identical seeds reproduce identical runs bit for bit.
package entropy

import (
	"math"
	"math/rand"
)

// Source wraps a seeded generator with the distribution draws the
// simulation needs. It is not safe for concurrent use; a run owns
// exactly one Source and draws from it single-threaded.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a deterministic source from a seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Intn returns a uniform int in [0, n). n must be > 0.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Normal returns a draw from N(mean, stddev).
func (s *Source) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.rng.NormFloat64()
}

// LogNormal returns exp(N(mu, sigma)).
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.Normal(mu, sigma))
}

// Poisson returns a draw from a Poisson distribution with the given mean.
// Knuth's method; means in this model are small (business spawns per tract).
func (s *Source) Poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= s.rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// Binomial returns the number of successes in n trials at probability p.
func (s *Source) Binomial(n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	successes := 0
	for i := 0; i < n; i++ {
		if s.rng.Float64() < p {
			successes++
		}
	}
	return successes
}

// WeightedIndex draws an index proportional to the given non-negative
// weights. Returns -1 if the weights sum to zero.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	target := s.rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

// SampleInts returns k distinct ints from [0, n) via partial Fisher-Yates.
// If k >= n it returns all of [0, n) in shuffled order.
func (s *Source) SampleInts(n, k int) []int {
	if n <= 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
