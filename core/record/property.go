package record

import "github.com/shahrukhsaba/duke/core/comparator"

// Role is one of the three property roles a field can play.
type Role string

const (
	RoleIdentity Role = "identity"
	RoleLookup   Role = "lookup"
	RoleCompare  Role = "compare"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleIdentity, RoleLookup, RoleCompare:
		return true
	}
	return false
}

// LookupBehaviour controls whether a lookup property's tokens contribute
// conjunctively or disjunctively to the compound candidate query.
type LookupBehaviour string

const (
	LookupRequired LookupBehaviour = "required"
	LookupOptional LookupBehaviour = "optional"
)

func (b LookupBehaviour) IsValid() bool {
	switch b {
	case LookupRequired, LookupOptional:
		return true
	}
	return false
}

// Property describes one field of the Configuration.
type Property struct {
	Name            string          `json:"name" validate:"required"`
	Role            Role            `json:"role"`
	LookupBehaviour LookupBehaviour `json:"lookup_behaviour"`
	Comparator      comparator.Name `json:"comparator"`
	HighProbability float64         `json:"high_probability" validate:"gte=0,lte=1"`
	LowProbability  float64         `json:"low_probability" validate:"gte=0,lte=1"`
}

// IsIdentity reports whether this property is (at least) an identity
// property — identity properties are excluded from scoring and drive
// record equality.
func (p Property) IsIdentity() bool {
	return p.Role == RoleIdentity
}

// IsLookup reports whether this property participates in candidate
// generation. Lookup properties that are not pure identity also
// participate in scoring.
func (p Property) IsLookup() bool {
	return p.Role == RoleLookup
}

// ParticipatesInScoring reports whether this property contributes
// evidence to the Bayesian combiner: identity properties never do.
func (p Property) ParticipatesInScoring() bool {
	return p.Role != RoleIdentity
}
