package comparator

// CostModel assigns a positive cost to an elementary edit operation as a
// function of the character involved. WeightedCostModel is the default
// table: digit errors are expensive (a transposed digit in a year or house
// number is a strong signal of a real difference), punctuation and
// whitespace are cheap, everything else is the baseline.
type CostModel interface {
	InsertDelete(c rune) float64
	Substitute(a, b rune) float64
}

// WeightedCostModel implements the default character-class cost table.
type WeightedCostModel struct{}

const (
	letterCost = 1.0
	digitCost  = 10.0
	cheapCost  = 0.1
	otherCost  = 1.0
)

func (WeightedCostModel) InsertDelete(c rune) float64 {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return letterCost
	case c >= '0' && c <= '9':
		return digitCost
	case c == ' ' || c == '\'' || c == ',' || c == '-':
		return cheapCost
	default:
		return otherCost
	}
}

func (m WeightedCostModel) Substitute(a, b rune) float64 {
	if a == b {
		return 0
	}
	ca, cb := m.InsertDelete(a), m.InsertDelete(b)
	if ca > cb {
		return ca
	}
	return cb
}

// UnitCostModel treats every edit operation as cost 1, used by the
// levenshtein comparator in registry.go. The early-termination kernel
// OptimizedDistance in editdistance.go applies the same unit costs
// directly rather than through this model.
type UnitCostModel struct{}

func (UnitCostModel) InsertDelete(rune) float64 { return 1 }

func (UnitCostModel) Substitute(a, b rune) float64 {
	if a == b {
		return 0
	}
	return 1
}
