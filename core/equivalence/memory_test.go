package equivalence_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahrukhsaba/duke/core/equivalence"
)

func classOf(t *testing.T, s *equivalence.MemoryStore, id string) []string {
	t.Helper()
	class, err := s.ClassOf(context.Background(), id)
	require.NoError(t, err)
	sort.Strings(class)
	return class
}

func TestMemoryStoreUnlinkedIDIsSingleton(t *testing.T) {
	s := equivalence.NewMemoryStore()
	assert.Equal(t, []string{"a"}, classOf(t, s, "a"))
}

func TestMemoryStoreAddLinkMerges(t *testing.T) {
	ctx := context.Background()
	s := equivalence.NewMemoryStore()

	require.NoError(t, s.AddLink(ctx, "a", "b"))
	require.NoError(t, s.AddLink(ctx, "b", "c"))

	assert.Equal(t, []string{"a", "b", "c"}, classOf(t, s, "a"))
	assert.Equal(t, []string{"a", "b", "c"}, classOf(t, s, "c"))
}

func TestMemoryStoreTransitiveMergeOfTwoExistingClasses(t *testing.T) {
	ctx := context.Background()
	s := equivalence.NewMemoryStore()

	require.NoError(t, s.AddLink(ctx, "a", "b"))
	require.NoError(t, s.AddLink(ctx, "c", "d"))
	require.NoError(t, s.AddLink(ctx, "b", "c"))

	want := []string{"a", "b", "c", "d"}
	assert.Equal(t, want, classOf(t, s, "a"))
	assert.Equal(t, want, classOf(t, s, "d"))
}

func TestMemoryStoreRelinkingIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := equivalence.NewMemoryStore()

	require.NoError(t, s.AddLink(ctx, "a", "b"))
	require.NoError(t, s.AddLink(ctx, "a", "b"))

	assert.Equal(t, []string{"a", "b"}, classOf(t, s, "b"))
}

func TestMemoryStoreUnrelatedIDsStayApart(t *testing.T) {
	ctx := context.Background()
	s := equivalence.NewMemoryStore()

	require.NoError(t, s.AddLink(ctx, "a", "b"))

	assert.Equal(t, []string{"z"}, classOf(t, s, "z"))
}
