package comparator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedLevenshteinSeedScenarios(t *testing.T) {
	model := WeightedCostModel{}

	// S1
	assert.Equal(t, 1.0, WeightedLevenshtein("abc", "abc", model))

	// S2: one substitution, letter cost 1, min length 5
	assert.InDelta(t, 0.80, WeightedLevenshtein("smith", "smyth", model), 1e-9)

	// S3: digit substitution cost 10 over length 4 goes negative
	got := WeightedLevenshtein("2015", "2016", model)
	assert.Less(t, got, 0.0)

	// S4: one extra cheap space insertion, cost 0.1 over min length 10
	assert.InDelta(t, 0.99, WeightedLevenshtein("John Smith", "John  Smith", model), 1e-9)
}

func TestWeightedLevenshteinSelfEquality(t *testing.T) {
	model := WeightedCostModel{}
	for _, s := range []string{"", "a", "hello world", "1234-5678"} {
		assert.Equal(t, 1.0, WeightedLevenshtein(s, s, model))
	}
}

func TestWeightedLevenshteinSymmetry(t *testing.T) {
	model := WeightedCostModel{}
	pairs := [][2]string{
		{"smith", "smyth"}, {"2015", "2016"}, {"abc", "xyz"}, {"", "a"},
	}
	for _, p := range pairs {
		a := WeightedLevenshtein(p[0], p[1], model)
		b := WeightedLevenshtein(p[1], p[0], model)
		assert.True(t, math.Abs(a-b) < 1e-9, "expected symmetry for %v", p)
	}
}

func TestWeightedLevenshteinMonotonicPadding(t *testing.T) {
	model := WeightedCostModel{}
	base := WeightedLevenshtein("smith", "smyth", model)
	padded := WeightedLevenshtein("Xsmith", "Xsmyth", model)
	assert.GreaterOrEqual(t, padded, base)
}

func TestOptimizedDistanceEarlyTermination(t *testing.T) {
	// S5: two maximally different 8-char strings; cutoff triggers at some
	// diagonal cell before the full DP completes, returning a value > 4.
	got := OptimizedDistance("abcdefgh", "zzzzzzzz", 0)
	assert.Greater(t, got, 4)
}

func TestOptimizedDistanceExact(t *testing.T) {
	assert.Equal(t, 0, OptimizedDistance("same", "same", 0))
	assert.Equal(t, 1, OptimizedDistance("cat", "cats", 0))
}
