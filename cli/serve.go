package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"

	esStore "github.com/shahrukhsaba/duke/internal/store/elasticsearch"
	"github.com/shahrukhsaba/duke/internal/store/postgres"
)

func cmdServe() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Check connectivity to the backing stores and exit",
		Long: heredoc.Doc(`
			duke has no long-running server: matching runs as a one-shot batch
			via "duke match". "serve" only verifies the Elasticsearch and
			Postgres connections a deployment will depend on.
		`),
		Example: heredoc.Doc(`
			$ duke serve
		`),
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(config Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := initLogger(config.LogLevel)
	logger.Info("duke bootstrap starting", "version", Version)

	esClient, err := initElasticsearch(logger, config.Elasticsearch)
	if err != nil {
		return err
	}
	info, err := esClient.Init(ctx)
	if err != nil {
		logger.Error("error obtaining elasticsearch info", "error", err)
		return err
	}
	logger.Info("connected to elasticsearch cluster", "info", info)

	pgClient, err := initPostgres(logger, config.DB)
	if err != nil {
		return err
	}
	defer pgClient.Close()
	logger.Info("connected to postgres server", "host", config.DB.Host, "port", config.DB.Port)

	logger.Info("bootstrap checks passed")
	return nil
}

func initLogger(logLevel string) *log.Logrus {
	return log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stdout),
	)
}

func initElasticsearch(logger log.Logger, cfg esStore.Config) (*esStore.Client, error) {
	client, err := esStore.NewClient(logger, cfg)
	if err != nil {
		logger.Error("error connecting to elasticsearch", "error", err)
		return nil, err
	}
	return client, nil
}

func initPostgres(logger log.Logger, cfg postgres.Config) (*postgres.Client, error) {
	pgClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Error("error creating postgres client", "error", err)
		return nil, err
	}
	return pgClient, nil
}
