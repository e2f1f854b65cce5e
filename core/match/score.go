package match

import (
	"github.com/shahrukhsaba/duke/core/comparator"
	"github.com/shahrukhsaba/duke/core/record"
)

// BestOfPairs implements the "best-of-pairs" rule: the maximum of
// property.comparator(v1,v2) over every v1 in a's values and v2 in b's
// values for this property, remapped onto
// [property.LowProbability, property.HighProbability]. ok is false when
// either side has no non-empty value for the property, signalling the
// caller to skip it rather than treat a missing value as a 0 score.
func BestOfPairs(reg *comparator.Registry, p record.Property, a, b []string) (score float64, ok bool, err error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false, nil
	}

	best := -1.0
	for _, v1 := range a {
		for _, v2 := range b {
			raw, err := reg.Compare(p.Comparator, v1, v2)
			if err != nil {
				return 0, false, err
			}
			remapped := comparator.Remap(raw, p.LowProbability, p.HighProbability)
			if remapped > best {
				best = remapped
			}
		}
	}
	return best, true, nil
}

// ScorePair computes the combined match probability for one record
// pair: identity properties and properties where either side has no
// value are skipped, everything else is folded in via the Bayesian
// combiner. It also returns how many properties contributed
// evidence, for diagnostics.
func ScorePair(reg *comparator.Registry, cfg record.Config, r1, r2 record.Record) (float64, int, error) {
	var scores []float64
	for _, p := range cfg.ScoringProperties() {
		score, ok, err := BestOfPairs(reg, p, r1.Values(p.Name), r2.Values(p.Name))
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			continue
		}
		scores = append(scores, score)
	}
	return Combine(scores), len(scores), nil
}
