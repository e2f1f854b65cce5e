package metrics

import (
	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// client wraps the DataDog statsd client with the sampling rate and
// logger every published metric needs. A disabled Config yields a
// client whose dd handle stays nil, so every publish is a no-op rather
// than a dial failure.
type client struct {
	dd     *std.Client
	logger log.Logger
	rate   float64
}

func newClient(logger log.Logger, cfg Config) (*client, error) {
	c := &client{logger: logger, rate: cfg.SamplingRate}
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return c, nil
	}

	dd, err := std.New(cfg.Address, std.WithNamespace(cfg.Prefix), std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}
	c.dd = dd
	return c, nil
}

func (c *client) incr(name string) *metric {
	return &metric{
		logger: c.logger,
		name:   name,
		rate:   c.rate,
		publish: func(name string, tags []string, rate float64) error {
			if c == nil || c.dd == nil {
				return nil
			}
			return c.dd.Incr(name, tags, rate)
		},
	}
}

func (c *client) gauge(name string, value float64) *metric {
	return &metric{
		logger: c.logger,
		name:   name,
		rate:   c.rate,
		publish: func(name string, tags []string, rate float64) error {
			if c == nil || c.dd == nil {
				return nil
			}
			return c.dd.Gauge(name, value, tags, rate)
		},
	}
}
