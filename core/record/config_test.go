package record_test

import (
	"testing"

	"github.com/shahrukhsaba/duke/core/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() record.Config {
	return record.Config{
		Threshold:      0.85,
		MaybeThreshold: 0.7,
		Properties: []record.Property{
			{Name: "id", Role: record.RoleIdentity},
			{
				Name: "name", Role: record.RoleLookup, LookupBehaviour: record.LookupRequired,
				Comparator: "weighted-levenshtein", HighProbability: 0.95, LowProbability: 0.4,
			},
		},
	}
}

func TestConfigValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfigValidateThresholdRange(t *testing.T) {
	cfg := validConfig()
	cfg.Threshold = 0.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MaybeThreshold = 0.9
	cfg.Threshold = 0.8
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateDuplicateProperty(t *testing.T) {
	cfg := validConfig()
	cfg.Properties = append(cfg.Properties, cfg.Properties[0])
	assert.Error(t, cfg.Validate())
}

func TestConfigPropertyLookup(t *testing.T) {
	cfg := validConfig()
	p, err := cfg.Property("name")
	require.NoError(t, err)
	assert.Equal(t, record.RoleLookup, p.Role)

	_, err = cfg.Property("nope")
	assert.Error(t, err)
}
