package record_test

import (
	"testing"

	"github.com/shahrukhsaba/duke/core/record"
	"github.com/stretchr/testify/assert"
)

func TestNewFiltersEmptyStrings(t *testing.T) {
	r := record.New(map[string][]string{
		"name":  {"John Smith", ""},
		"email": {""},
	})

	assert.Equal(t, []string{"John Smith"}, r.Values("name"))
	assert.False(t, r.HasField("email"))
	assert.Nil(t, r.Values("missing"))
}

func TestSameIdentity(t *testing.T) {
	cfg := record.Config{
		Properties: []record.Property{
			{Name: "ssn", Role: record.RoleIdentity},
			{Name: "name", Role: record.RoleCompare, Comparator: "exact", HighProbability: 1, LowProbability: 0},
		},
	}

	r1 := record.New(map[string][]string{"ssn": {"123"}, "name": {"John"}})
	r2 := record.New(map[string][]string{"ssn": {"123"}, "name": {"Jon"}})
	r3 := record.New(map[string][]string{"ssn": {"999"}, "name": {"John"}})

	assert.True(t, record.SameIdentity(cfg, r1, r2))
	assert.False(t, record.SameIdentity(cfg, r1, r3))
}
