package metrics

// Config configures the statsd reporter that core/match.Engine's
// Reporter publishes through.
type Config struct {
	Enabled      bool    `mapstructure:"enabled" default:"false"`
	Address      string  `mapstructure:"address" default:"127.0.0.1:8125"`
	Prefix       string  `mapstructure:"prefix" default:"duke"`
	SamplingRate float64 `mapstructure:"sampling_rate" default:"1"`
}
