// Package metrics is duke's statsd-backed implementation of
// core/match.Reporter: the counters Engine emits (candidates
// considered, verdicts reached, the query tracker's current retrieval
// limit) adapted directly onto DataDog's statsd client the way the
// teacher's pkg/statsd wraps it, trimmed to the tag-then-publish
// surface the matching engine actually exercises.
package metrics

import "github.com/goto/salt/log"

// Reporter implements core/match.Reporter over a statsd client.
type Reporter struct {
	c *client
}

// New dials statsd per cfg. A disabled config returns a Reporter whose
// publishes are no-ops rather than an error.
func New(logger log.Logger, cfg Config) (*Reporter, error) {
	c, err := newClient(logger, cfg)
	if err != nil {
		return nil, err
	}
	return &Reporter{c: c}, nil
}

func (r *Reporter) IncrCandidate() {
	r.c.incr("duke.match.candidate").Publish()
}

func (r *Reporter) IncrMatch() {
	r.c.incr("duke.match.verdict").Tag("verdict", "match").Publish()
}

func (r *Reporter) IncrMaybe() {
	r.c.incr("duke.match.verdict").Tag("verdict", "maybe").Publish()
}

func (r *Reporter) IncrNoMatch() {
	r.c.incr("duke.match.verdict").Tag("verdict", "no_match").Publish()
}

func (r *Reporter) GaugeTrackerLimit(limit float64) {
	r.c.gauge("duke.match.tracker_limit", limit).Publish()
}
