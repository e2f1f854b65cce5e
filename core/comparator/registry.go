package comparator

import (
	"fmt"
	"strconv"
	"strings"
)

// Comparator is the function contract every comparator must satisfy:
// f(s,s)=1, f(a,b)=f(b,a), and the result must lie in [0,1].
// IsTokenized reports
// whether the comparator expects its inputs to already be
// analyzed/tokenized text rather than raw strings.
type Comparator interface {
	Compare(a, b string) (float64, error)
	IsTokenized() bool
}

// Name identifies one of the built-in comparator variants. The set is
// closed: a small tagged variant for built-in comparators. Callers
// needing something else register a custom Comparator under its own
// name via Register.
type Name string

const (
	NameExact               Name = "exact"
	NameWeightedLevenshtein Name = "weighted-levenshtein"
	NameLevenshtein         Name = "levenshtein"
	NameNumericDifference   Name = "numeric-difference"
)

// ErrOutOfRange is returned, and is fatal, when a comparator
// implementation violates the [0,1] contract.
type ErrOutOfRange struct {
	Name  Name
	A, B  string
	Value float64
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("comparator %q produced out-of-range value %v comparing %q and %q", e.Name, e.Value, e.A, e.B)
}

type exactComparator struct{}

func (exactComparator) IsTokenized() bool { return false }
func (exactComparator) Compare(a, b string) (float64, error) {
	if a == b {
		return 1.0, nil
	}
	return 0.0, nil
}

type weightedLevenshteinComparator struct {
	model CostModel
}

func (weightedLevenshteinComparator) IsTokenized() bool { return false }

// Compare clamps WeightedLevenshtein's raw 1-D/min(|a|,|b|) value at 0
// before returning it. Spec §4.2 only promises the clamp happens
// "implicitly by caller"; Registry.Compare is that caller, and it
// treats score < 0 as a fatal ErrOutOfRange, so the clamp has to
// happen here rather than further up the call chain.
func (c weightedLevenshteinComparator) Compare(a, b string) (float64, error) {
	score := WeightedLevenshtein(a, b, c.model)
	if score < 0 {
		score = 0
	}
	return score, nil
}

// levenshteinComparator wraps the exact unit-cost edit distance
// (weightedDistance over UnitCostModel) into a normalized [0,1]
// comparator: 1 - D/max(|a|,|b|), clamped at 0. Distinct from the
// OptimizedDistance early-termination proxy, which is an internal
// rejection test, not a public comparator.
type levenshteinComparator struct{}

func (levenshteinComparator) IsTokenized() bool { return false }
func (levenshteinComparator) Compare(a, b string) (float64, error) {
	if a == b {
		return 1.0, nil
	}
	d := weightedDistance([]rune(a), []rune(b), UnitCostModel{})
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0, nil
	}
	score := 1.0 - float64(d)/float64(maxLen)
	if score < 0 {
		score = 0
	}
	return score, nil
}

// numericDifferenceComparator scores two numeric strings by their
// relative difference, for fields like year or house number where a
// string-edit view is the wrong lens. Non-numeric input falls back to 0
// similarity rather than erroring, since a malformed numeric field is a
// legitimate "no match" signal, not a programming error.
type numericDifferenceComparator struct{}

func (numericDifferenceComparator) IsTokenized() bool { return false }
func (numericDifferenceComparator) Compare(a, b string) (float64, error) {
	na, erra := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errb := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if erra != nil || errb != nil {
		return 0, nil
	}
	if na == nb {
		return 1.0, nil
	}
	diff := na - nb
	if diff < 0 {
		diff = -diff
	}
	denom := na
	if denom < 0 {
		denom = -denom
	}
	if nb2 := nb; nb2 < 0 {
		nb2 = -nb2
		if nb2 > denom {
			denom = nb2
		}
	} else if nb2 > denom {
		denom = nb2
	}
	if denom == 0 {
		return 0, nil
	}
	score := 1.0 - diff/denom
	if score < 0 {
		score = 0
	}
	return score, nil
}

// Registry is the comparator dispatch point held by a Property: every
// Property references a Comparator by Name, resolved here.
type Registry struct {
	comparators map[Name]Comparator
}

// NewRegistry builds a registry pre-populated with the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{comparators: make(map[Name]Comparator)}
	r.Register(NameExact, exactComparator{})
	r.Register(NameWeightedLevenshtein, weightedLevenshteinComparator{model: WeightedCostModel{}})
	r.Register(NameLevenshtein, levenshteinComparator{})
	r.Register(NameNumericDifference, numericDifferenceComparator{})
	return r
}

// Register adds or overrides a named comparator, including user-supplied
// ones that satisfy the Comparator interface.
func (r *Registry) Register(name Name, c Comparator) {
	r.comparators[name] = c
}

// Lookup resolves a registered comparator by name.
func (r *Registry) Lookup(name Name) (Comparator, bool) {
	c, ok := r.comparators[name]
	return c, ok
}

// Compare runs the named comparator and validates its output against
// the [0,1] contract, surfacing a violation as ErrOutOfRange (fatal).
func (r *Registry) Compare(name Name, a, b string) (float64, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("comparator %q is not registered", name)
	}
	score, err := c.Compare(a, b)
	if err != nil {
		return 0, fmt.Errorf("comparator %q failed comparing %q and %q: %w", name, a, b, err)
	}
	if score < 0 || score > 1 {
		return 0, ErrOutOfRange{Name: name, A: a, B: b, Value: score}
	}
	return score, nil
}

// Remap linearly maps a raw comparator score from [0,1] onto
// [lowProbability, highProbability].
func Remap(score, low, high float64) float64 {
	return low + score*(high-low)
}
