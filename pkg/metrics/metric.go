package metrics

import (
	"fmt"

	"github.com/goto/salt/log"
)

// metric accumulates tags for one counter/gauge publish. Trimmed from
// the teacher's statsd.Metric to the tag-then-publish builder duke
// actually calls: there is no timing/histogram metric and no
// influx-line-protocol tag format anywhere in the matching engine.
type metric struct {
	logger  log.Logger
	name    string
	rate    float64
	tags    map[string]string
	publish func(name string, tags []string, rate float64) error
}

// Tag adds a tag to the metric.
func (m *metric) Tag(key, val string) *metric {
	if m == nil {
		return nil
	}
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.tags[key] = val
	return m
}

// Publish fires the metric asynchronously, logging failures rather
// than surfacing them: a dropped metric must never fail a matching run.
func (m *metric) Publish() {
	if m == nil {
		return
	}
	tags := make([]string, 0, len(m.tags))
	for k, v := range m.tags {
		tags = append(tags, fmt.Sprintf("%s:%s", k, v))
	}
	go func() {
		if err := m.publish(m.name, tags, m.rate); err != nil {
			m.logger.Warn("failed to publish metric", "name", m.name, "err", err)
		}
	}()
}
