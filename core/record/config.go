package record

import (
	"fmt"

	"github.com/shahrukhsaba/duke/core/validator"
)

// Config is the ordered set of Properties plus match thresholds.
// Threshold invariant: threshold >= maybeThreshold > 0.5.
type Config struct {
	Properties     []Property `json:"properties" validate:"dive"`
	Threshold      float64    `json:"threshold" validate:"gt=0.5,lte=1"`
	MaybeThreshold float64    `json:"maybe_threshold" validate:"gt=0.5,lte=1,ltefield=Threshold"`
}

// ConfigError is fatal to the enclosing run: a record references a
// property not declared in the configuration, or a threshold is out
// of range.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Validate runs the struct-tag checks declared on Config/Property
// (thresholds in (0.5,1] with maybeThreshold <= threshold, probability
// bounds, required names) through core/validator.ValidateStruct, then
// applies the remaining checks a struct tag can't express: duplicate
// property names, and the role-dependent oneof rules (LookupBehaviour
// is only meaningful, and only validated, on non-identity properties).
func (c Config) Validate() error {
	if err := validator.ValidateStruct(c); err != nil {
		return ConfigError{Reason: err.Error()}
	}

	seen := make(map[string]bool, len(c.Properties))
	for _, p := range c.Properties {
		if seen[p.Name] {
			return ConfigError{Reason: fmt.Sprintf("duplicate property name %q", p.Name)}
		}
		seen[p.Name] = true

		if err := validator.ValidateOneOf(string(p.Role), string(RoleIdentity), string(RoleLookup), string(RoleCompare)); err != nil {
			return ConfigError{Reason: fmt.Sprintf("property %q: %v", p.Name, err)}
		}
		if p.Role != RoleIdentity {
			if err := validator.ValidateOneOf(string(p.LookupBehaviour), string(LookupRequired), string(LookupOptional)); err != nil {
				return ConfigError{Reason: fmt.Sprintf("property %q: %v", p.Name, err)}
			}
		}
	}
	return nil
}

// Property looks up a declared property by name, returning ConfigError
// if the record/query references a property the configuration doesn't
// know about.
func (c Config) Property(name string) (Property, error) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, nil
		}
	}
	return Property{}, ConfigError{Reason: fmt.Sprintf("property %q not declared in configuration", name)}
}

// LookupProperties returns the properties that participate in candidate
// generation.
func (c Config) LookupProperties() []Property {
	var out []Property
	for _, p := range c.Properties {
		if p.IsLookup() {
			out = append(out, p)
		}
	}
	return out
}

// IdentityProperties returns the properties used for the identity check.
func (c Config) IdentityProperties() []Property {
	var out []Property
	for _, p := range c.Properties {
		if p.IsIdentity() {
			out = append(out, p)
		}
	}
	return out
}

// ScoringProperties returns the properties the Bayesian combiner folds
// in: everything except pure identity properties.
func (c Config) ScoringProperties() []Property {
	var out []Property
	for _, p := range c.Properties {
		if p.ParticipatesInScoring() {
			out = append(out, p)
		}
	}
	return out
}

// SameIdentity reports whether two records are "the same" entity: they
// share at least one value on at least one identity property.
func SameIdentity(cfg Config, r1, r2 Record) bool {
	for _, p := range cfg.IdentityProperties() {
		v1 := r1.Values(p.Name)
		if len(v1) == 0 {
			continue
		}
		v2set := make(map[string]bool, len(r2.Values(p.Name)))
		for _, v := range r2.Values(p.Name) {
			v2set[v] = true
		}
		for _, v := range v1 {
			if v2set[v] {
				return true
			}
		}
	}
	return false
}
