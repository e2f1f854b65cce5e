package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	score, err := r.Compare(NameExact, "foo", "foo")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, err = r.Compare(NameExact, "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = r.Compare(NameWeightedLevenshtein, "smith", "smyth")
	require.NoError(t, err)
	assert.InDelta(t, 0.80, score, 1e-9)
}

// TestWeightedLevenshteinClampsNegativeScore covers spec S3: the raw
// weighted score for "2015" vs "2016" is 1-10/4 = -1.5 (a digit
// substitution), which must come back clamped at 0 rather than
// propagating past Registry.Compare's [0,1] contract check as
// ErrOutOfRange.
func TestWeightedLevenshteinClampsNegativeScore(t *testing.T) {
	r := NewRegistry()

	score, err := r.Compare(NameWeightedLevenshtein, "2015", "2016")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = r.Compare(NameWeightedLevenshtein, "Jon", "Jonathan")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()
	_, err := r.Compare(Name("nope"), "a", "b")
	assert.Error(t, err)
}

func TestRegistryCustomComparator(t *testing.T) {
	r := NewRegistry()
	r.Register(Name("always-half"), constComparator{value: 0.5})

	score, err := r.Compare(Name("always-half"), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}

func TestRegistryRejectsOutOfRange(t *testing.T) {
	r := NewRegistry()
	r.Register(Name("broken"), constComparator{value: 1.5})

	_, err := r.Compare(Name("broken"), "x", "y")
	require.Error(t, err)
	var oor ErrOutOfRange
	require.ErrorAs(t, err, &oor)
}

func TestRemap(t *testing.T) {
	assert.Equal(t, 0.9, Remap(1.0, 0.1, 0.9))
	assert.Equal(t, 0.1, Remap(0.0, 0.1, 0.9))
	assert.InDelta(t, 0.5, Remap(0.5, 0.1, 0.9), 1e-9)
}

type constComparator struct{ value float64 }

func (c constComparator) IsTokenized() bool                { return false }
func (c constComparator) Compare(a, b string) (float64, error) { return c.value, nil }
