// Package match implements the matching engine: the blocking-then-
// scoring pipeline that turns an inverted index and a comparator
// registry into match/maybe/no-match verdicts, plus the Bayesian
// combiner and identity check it relies on.
package match

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/shahrukhsaba/duke/core/comparator"
	"github.com/shahrukhsaba/duke/core/index"
	"github.com/shahrukhsaba/duke/core/record"
)

// Config holds the matcher-level knobs that are not part of the
// property/threshold Configuration: retrieval depth, relevance floor,
// and the candidate-generation miss cutoff.
type Config struct {
	MaxSearchHits   int     `mapstructure:"max_search_hits" default:"10000"`
	MinRelevance    float64 `mapstructure:"min_relevance" default:"0"`
	ExpansionFactor float64 `mapstructure:"expansion_factor" default:"1"`

	// MissedHitCutoff is the "missed hits in a row" cutoff for
	// deduplication-mode candidate generation, exposed as a tunable
	// rather than hard-coded.
	MissedHitCutoff int `mapstructure:"missed_hit_cutoff" default:"10"`
}

// Reporter receives counters the engine emits as it runs. A nil
// Reporter is valid; every call is a no-op in that case via NopReporter.
type Reporter interface {
	IncrCandidate()
	IncrMatch()
	IncrMaybe()
	IncrNoMatch()
	GaugeTrackerLimit(limit float64)
}

// NopReporter discards every metric; used when no Reporter is supplied.
type NopReporter struct{}

func (NopReporter) IncrCandidate()             {}
func (NopReporter) IncrMatch()                 {}
func (NopReporter) IncrMaybe()                 {}
func (NopReporter) IncrNoMatch()               {}
func (NopReporter) GaugeTrackerLimit(float64)  {}

// Engine is the matching engine: blocking via idx, scoring via
// comparators, classification against cfg's thresholds. It owns its
// QueryResultTracker as a private sub-object rather than a
// process-global, since tracker state is per-matcher and not
// thread-safe.
type Engine struct {
	cfg         record.Config
	matchCfg    Config
	comparators *comparator.Registry
	idx         index.Index
	tracker     *index.Tracker
	reporter    Reporter

	verdictCounter metric.Int64Counter
}

// NewEngine builds a matching engine bound to one backing index. reporter
// may be nil.
func NewEngine(cfg record.Config, matchCfg Config, comparators *comparator.Registry, idx index.Index, reporter Reporter) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	verdictCounter, err := otel.Meter("github.com/shahrukhsaba/duke/core/match").
		Int64Counter("duke.match.verdict")
	if err != nil {
		otel.Handle(err)
	}

	return &Engine{
		cfg:            cfg,
		matchCfg:       matchCfg,
		comparators:    comparators,
		idx:            idx,
		tracker:        index.NewTracker(matchCfg.MaxSearchHits, matchCfg.MinRelevance, matchCfg.ExpansionFactor),
		reporter:       reporter,
		verdictCounter: verdictCounter,
	}, nil
}

// Run executes deduplication mode: index every record, commit once,
// then block+score+classify each record against the now-fully-visible
// batch.
func (e *Engine) Run(ctx context.Context, records []Candidate, sink Sink) (Stats, error) {
	var stats Stats

	for _, r := range records {
		if err := e.idx.Index(ctx, r.ID, e.cfg, r.Record); err != nil {
			return stats, BackingStoreError{Op: fmt.Sprintf("index(%s)", r.ID), Err: err}
		}
	}
	if err := e.idx.Commit(ctx); err != nil {
		return stats, BackingStoreError{Op: "commit", Err: err}
	}

	for _, r := range records {
		candidates, err := e.generateCandidatesDedup(ctx, r)
		if err != nil {
			return stats, err
		}

		matched := false
		for _, c := range candidates {
			if c.ID == r.ID || record.SameIdentity(e.cfg, r.Record, c.Record) {
				continue
			}

			prob, comparisons, err := ScorePair(e.comparators, e.cfg, r.Record, c.Record)
			if err != nil {
				return stats, err
			}
			stats.ComparisonsPerformed += comparisons

			switch e.classify(prob) {
			case verdictMatch:
				matched = true
				stats.Matches++
				e.reporter.IncrMatch()
				e.emitVerdict(ctx, "match")
				sink.OnMatch(ctx, r, c, prob)
			case verdictMaybe:
				matched = true
				stats.Maybes++
				e.reporter.IncrMaybe()
				e.emitVerdict(ctx, "maybe")
				sink.OnMaybe(ctx, r, c, prob)
			}
		}

		if !matched {
			stats.NoMatches++
			e.reporter.IncrNoMatch()
			e.emitVerdict(ctx, "no_match")
			sink.OnNoMatch(ctx, r)
		}
		stats.RecordsProcessed++
		e.reporter.GaugeTrackerLimit(float64(e.tracker.CurrentLimit()))
	}

	return stats, nil
}

// Probe executes record-linkage mode: match a probe record against the
// already-indexed reference corpus without inserting it, emitting at
// most one verdict for the single best candidate.
func (e *Engine) Probe(ctx context.Context, probe Candidate, sink Sink) (Stats, error) {
	var stats Stats

	candidates, err := e.generateCandidatesLinkage(ctx, probe)
	if err != nil {
		return stats, err
	}

	var best Candidate
	bestProb := -1.0
	found := false
	for _, c := range candidates {
		if c.ID == probe.ID || record.SameIdentity(e.cfg, probe.Record, c.Record) {
			continue
		}
		prob, comparisons, err := ScorePair(e.comparators, e.cfg, probe.Record, c.Record)
		if err != nil {
			return stats, err
		}
		stats.ComparisonsPerformed += comparisons

		// Ties keep the first-encountered (highest index-relevance)
		// candidate.
		if prob > bestProb {
			bestProb = prob
			best = c
			found = true
		}
	}

	stats.RecordsProcessed = 1
	if found {
		switch e.classify(bestProb) {
		case verdictMatch:
			stats.Matches++
			e.reporter.IncrMatch()
			e.emitVerdict(ctx, "match")
			sink.OnMatch(ctx, probe, best, bestProb)
			return stats, nil
		case verdictMaybe:
			stats.Maybes++
			e.reporter.IncrMaybe()
			e.emitVerdict(ctx, "maybe")
			sink.OnMaybe(ctx, probe, best, bestProb)
			return stats, nil
		}
	}

	stats.NoMatches++
	e.reporter.IncrNoMatch()
	e.emitVerdict(ctx, "no_match")
	sink.OnNoMatch(ctx, probe)
	return stats, nil
}

type verdict int

const (
	verdictNone verdict = iota
	verdictMaybe
	verdictMatch
)

func (e *Engine) classify(prob float64) verdict {
	switch {
	case prob > e.cfg.Threshold:
		return verdictMatch
	case prob > e.cfg.MaybeThreshold:
		return verdictMaybe
	default:
		return verdictNone
	}
}

func (e *Engine) emitVerdict(ctx context.Context, kind string) {
	if e.verdictCounter == nil {
		return
	}
	e.verdictCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", kind)))
}

// generateCandidatesDedup walks each lookup property's ranked hits
// until a run of consecutive ones fail to clear the per-property 0.5
// similarity bar, accumulating the distinct union of "useful"
// candidates across all properties.
func (e *Engine) generateCandidatesDedup(ctx context.Context, r Candidate) ([]Candidate, error) {
	seen := make(map[string]Candidate)

	for _, p := range e.cfg.LookupProperties() {
		values := r.Record.Values(p.Name)
		if len(values) == 0 {
			continue
		}

		hits, err := e.tracker.Query(func(limit int) ([]index.Hit, error) {
			return e.idx.LookupField(ctx, p.Name, values, limit)
		})
		if err != nil {
			return nil, BackingStoreError{Op: fmt.Sprintf("lookup(%s)", p.Name), Err: err}
		}

		lastmatch := -1
		for ix, h := range hits {
			e.reporter.IncrCandidate()

			useful := false
			if _, ok := seen[h.ID]; ok {
				useful = true
			} else {
				score, ok, err := BestOfPairs(e.comparators, p, values, h.Record.Values(p.Name))
				if err != nil {
					return nil, err
				}
				if ok && score > 0.5 {
					useful = true
				}
			}

			if useful {
				lastmatch = ix
				seen[h.ID] = Candidate{ID: h.ID, Record: h.Record}
			}
			if ix-lastmatch > e.matchCfg.MissedHitCutoff {
				break
			}
		}
	}

	out := make([]Candidate, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	return out, nil
}

// generateCandidatesLinkage computes a plain union of lookup(p,
// r.values(p)) over every lookup property, with no early-termination
// heuristic.
func (e *Engine) generateCandidatesLinkage(ctx context.Context, r Candidate) ([]Candidate, error) {
	seen := make(map[string]Candidate)
	var order []string

	for _, p := range e.cfg.LookupProperties() {
		values := r.Record.Values(p.Name)
		if len(values) == 0 {
			continue
		}

		hits, err := e.tracker.Query(func(limit int) ([]index.Hit, error) {
			return e.idx.LookupField(ctx, p.Name, values, limit)
		})
		if err != nil {
			return nil, BackingStoreError{Op: fmt.Sprintf("lookup(%s)", p.Name), Err: err}
		}

		for _, h := range hits {
			e.reporter.IncrCandidate()
			if _, ok := seen[h.ID]; !ok {
				order = append(order, h.ID)
			}
			seen[h.ID] = Candidate{ID: h.ID, Record: h.Record}
		}
	}

	out := make([]Candidate, 0, len(seen))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out, nil
}
