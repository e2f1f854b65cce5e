package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	esStore "github.com/shahrukhsaba/duke/internal/store/elasticsearch"
	"github.com/shahrukhsaba/duke/internal/store/postgres"
	"github.com/shahrukhsaba/duke/core/match"
	"github.com/shahrukhsaba/duke/core/record"
	"github.com/shahrukhsaba/duke/pkg/metrics"
)

// Config is duke's top-level configuration: record schema and
// thresholds, matcher tuning, and the backing stores.
type Config struct {
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	Record record.Config `mapstructure:"record"`
	Match  match.Config  `mapstructure:"match"`

	StatsD        metrics.Config  `mapstructure:"statsd"`
	Elasticsearch esStore.Config  `mapstructure:"elasticsearch"`
	DB            postgres.Config `mapstructure:"db"`
}

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage duke's configuration",
		Example: heredoc.Doc(`
			$ duke config init
			$ duke config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand())

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Example: heredoc.Doc(`
			$ duke config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig("duke")
			if err := cfg.Init(&Config{}); err != nil {
				return err
			}
			fmt.Printf("config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the resolved configuration",
		Example: heredoc.Doc(`
			$ duke config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}

func loadConfig(cmd *cobra.Command) (Config, error) {
	var cfg Config

	cfgFile, _ := cmd.Flags().GetString(configFlag)
	if cfgFile != "" {
		var opts []config.LoaderOption
		opts = append(opts, config.WithFile(cfgFile))
		if err := config.NewLoader(opts...).Load(&cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	if err := cmdx.SetConfig("duke").Load(&cfg); err != nil {
		var notFound config.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}
