package entropy

import (
	"math"
	"testing"
)

func TestSourceDeterminism(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 1000; i++ {
		if a.Float() != b.Float() {
			t.Fatalf("draw %d diverged between identically seeded sources", i)
		}
	}
}

func TestPoissonMean(t *testing.T) {
	tests := []struct {
		name string
		mean float64
	}{
		{"small", 0.5},
		{"unit", 1.0},
		{"larger", 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSource(7)
			n := 20000
			sum := 0
			for i := 0; i < n; i++ {
				sum += s.Poisson(tt.mean)
			}
			got := float64(sum) / float64(n)
			if math.Abs(got-tt.mean) > 0.1 {
				t.Errorf("Poisson(%v) sample mean = %.3f, want within 0.1", tt.mean, got)
			}
		})
	}
}

func TestPoissonZeroMean(t *testing.T) {
	s := NewSource(1)
	for i := 0; i < 100; i++ {
		if s.Poisson(0) != 0 {
			t.Fatal("Poisson(0) must always be 0")
		}
	}
}

func TestBinomialBounds(t *testing.T) {
	s := NewSource(3)
	for i := 0; i < 1000; i++ {
		got := s.Binomial(5, 0.3)
		if got < 0 || got > 5 {
			t.Fatalf("Binomial(5, 0.3) = %d, out of [0,5]", got)
		}
	}
	if s.Binomial(4, 1.0) != 4 {
		t.Error("Binomial with p=1 must return n")
	}
	if s.Binomial(4, 0) != 0 {
		t.Error("Binomial with p=0 must return 0")
	}
}

func TestWeightedIndex(t *testing.T) {
	s := NewSource(9)
	weights := []float64{0, 0, 1, 0}
	for i := 0; i < 100; i++ {
		if got := s.WeightedIndex(weights); got != 2 {
			t.Fatalf("WeightedIndex with single positive weight = %d, want 2", got)
		}
	}
	if got := s.WeightedIndex([]float64{0, 0}); got != -1 {
		t.Errorf("WeightedIndex with zero weights = %d, want -1", got)
	}
}

func TestSampleIntsDistinct(t *testing.T) {
	s := NewSource(11)
	got := s.SampleInts(10, 4)
	if len(got) != 4 {
		t.Fatalf("SampleInts(10, 4) returned %d values", len(got))
	}
	seen := make(map[int]bool)
	for _, v := range got {
		if v < 0 || v >= 10 {
			t.Errorf("sampled value %d out of range", v)
		}
		if seen[v] {
			t.Errorf("sampled value %d repeated", v)
		}
		seen[v] = true
	}
	if got := s.SampleInts(3, 10); len(got) != 3 {
		t.Errorf("SampleInts with k > n returned %d values, want 3", len(got))
	}
}
