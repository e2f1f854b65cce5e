package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahrukhsaba/duke/core/comparator"
	"github.com/shahrukhsaba/duke/core/index"
	"github.com/shahrukhsaba/duke/core/match"
	"github.com/shahrukhsaba/duke/core/record"
)

// fakeIndex is a minimal in-memory index.Index: every record indexed is
// immediately visible, and LookupField scans linearly. It exists purely
// to exercise core/match.Engine without a live Elasticsearch cluster.
type fakeIndex struct {
	docs []index.Hit
}

func (f *fakeIndex) Index(ctx context.Context, id string, cfg record.Config, rec record.Record) error {
	f.docs = append(f.docs, index.Hit{ID: id, Record: rec})
	return nil
}

func (f *fakeIndex) Commit(ctx context.Context) error { return nil }

func (f *fakeIndex) LookupField(ctx context.Context, property string, values []string, limit int) ([]index.Hit, error) {
	var hits []index.Hit
	for _, d := range f.docs {
		for _, v := range d.Record.Values(property) {
			for _, probe := range values {
				if v == probe {
					hits = append(hits, d)
				}
			}
		}
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

func (f *fakeIndex) LookupRecord(ctx context.Context, cfg record.Config, rec record.Record, limit int) ([]index.Hit, error) {
	return nil, nil
}

func (f *fakeIndex) FindByID(ctx context.Context, idValue string) (index.Hit, bool, error) {
	for _, d := range f.docs {
		if d.ID == idValue {
			return d, true, nil
		}
	}
	return index.Hit{}, false, nil
}

// recordingSink captures every callback for assertion.
type recordingSink struct {
	matches, maybes, noMatches []string
}

func (s *recordingSink) OnMatch(ctx context.Context, r1, r2 match.Candidate, probability float64) {
	s.matches = append(s.matches, r1.ID+"~"+r2.ID)
}

func (s *recordingSink) OnMaybe(ctx context.Context, r1, r2 match.Candidate, probability float64) {
	s.maybes = append(s.maybes, r1.ID+"~"+r2.ID)
}

func (s *recordingSink) OnNoMatch(ctx context.Context, r match.Candidate) {
	s.noMatches = append(s.noMatches, r.ID)
}

func testConfig() record.Config {
	return record.Config{
		Threshold:      0.8,
		MaybeThreshold: 0.6,
		Properties: []record.Property{
			{Name: "ssn", Role: record.RoleIdentity},
			{
				Name:            "name",
				Role:            record.RoleLookup,
				LookupBehaviour: record.LookupRequired,
				Comparator:      comparator.NameWeightedLevenshtein,
				HighProbability: 0.95,
				LowProbability:  0.4,
			},
		},
	}
}

func TestEngineRunFindsDuplicatePair(t *testing.T) {
	cfg := testConfig()
	idx := &fakeIndex{}
	engine, err := match.NewEngine(cfg, match.Config{MaxSearchHits: 100, MissedHitCutoff: 10}, comparator.NewRegistry(), idx, nil)
	require.NoError(t, err)

	records := []match.Candidate{
		{ID: "1", Record: record.New(map[string][]string{"ssn": {"111"}, "name": {"John Smith"}})},
		{ID: "2", Record: record.New(map[string][]string{"ssn": {"222"}, "name": {"John Smith"}})},
		{ID: "3", Record: record.New(map[string][]string{"ssn": {"333"}, "name": {"Unrelated Person"}})},
	}

	sink := &recordingSink{}
	stats, err := engine.Run(context.Background(), records, sink)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.RecordsProcessed)
	assert.Contains(t, sink.matches, "1~2")
	assert.Contains(t, sink.noMatches, "3")
}

func TestEngineProbeEmitsAtMostOneVerdict(t *testing.T) {
	cfg := testConfig()
	idx := &fakeIndex{}
	engine, err := match.NewEngine(cfg, match.Config{MaxSearchHits: 100, MissedHitCutoff: 10}, comparator.NewRegistry(), idx, nil)
	require.NoError(t, err)

	ctx := context.Background()
	reference := match.Candidate{ID: "ref-1", Record: record.New(map[string][]string{"ssn": {"999"}, "name": {"Jane Doe"}})}
	require.NoError(t, idx.Index(ctx, reference.ID, cfg, reference.Record))
	require.NoError(t, idx.Commit(ctx))

	probe := match.Candidate{ID: "probe-1", Record: record.New(map[string][]string{"ssn": {"000"}, "name": {"Jane Doe"}})}

	sink := &recordingSink{}
	stats, err := engine.Probe(ctx, probe, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.RecordsProcessed)
	assert.LessOrEqual(t, len(sink.matches)+len(sink.maybes)+len(sink.noMatches), 1)
	assert.Contains(t, sink.matches, "probe-1~ref-1")
}

// TestEngineRunClampsNegativeWeightedScore reproduces the scenario a
// weighted-levenshtein comparator hits on any ordinary dissimilar pair:
// two records block together on an exact-match lookup property ("city")
// but differ on a compare-only property ("year") scored with
// NameWeightedLevenshtein, whose raw score for "2015" vs "2016" is
// negative before clamping. The run must complete with a no-match verdict
// rather than aborting with ErrOutOfRange.
func TestEngineRunClampsNegativeWeightedScore(t *testing.T) {
	cfg := record.Config{
		Threshold:      0.8,
		MaybeThreshold: 0.6,
		Properties: []record.Property{
			{Name: "id", Role: record.RoleIdentity},
			{
				Name:            "city",
				Role:            record.RoleLookup,
				LookupBehaviour: record.LookupRequired,
				Comparator:      comparator.NameExact,
				HighProbability: 1,
				LowProbability:  0,
			},
			{
				Name:            "year",
				Role:            record.RoleCompare,
				Comparator:      comparator.NameWeightedLevenshtein,
				HighProbability: 1,
				LowProbability:  0,
			},
		},
	}
	idx := &fakeIndex{}
	engine, err := match.NewEngine(cfg, match.Config{MaxSearchHits: 100, MissedHitCutoff: 10}, comparator.NewRegistry(), idx, nil)
	require.NoError(t, err)

	records := []match.Candidate{
		{ID: "1", Record: record.New(map[string][]string{"id": {"a"}, "city": {"NYC"}, "year": {"2015"}})},
		{ID: "2", Record: record.New(map[string][]string{"id": {"b"}, "city": {"NYC"}, "year": {"2016"}})},
	}

	sink := &recordingSink{}
	stats, err := engine.Run(context.Background(), records, sink)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.RecordsProcessed)
	assert.Empty(t, sink.matches)
	assert.Empty(t, sink.maybes)
	assert.Len(t, sink.noMatches, 2)
}

func TestEngineSkipsSameIdentity(t *testing.T) {
	cfg := testConfig()
	idx := &fakeIndex{}
	engine, err := match.NewEngine(cfg, match.Config{MaxSearchHits: 100, MissedHitCutoff: 10}, comparator.NewRegistry(), idx, nil)
	require.NoError(t, err)

	records := []match.Candidate{
		{ID: "1", Record: record.New(map[string][]string{"ssn": {"111"}, "name": {"John Smith"}})},
		{ID: "2", Record: record.New(map[string][]string{"ssn": {"111"}, "name": {"John Smith"}})},
	}

	sink := &recordingSink{}
	_, err = engine.Run(context.Background(), records, sink)
	require.NoError(t, err)

	assert.Empty(t, sink.matches)
	assert.Empty(t, sink.maybes)
	assert.Len(t, sink.noMatches, 2)
}
