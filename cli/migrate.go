package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/shahrukhsaba/duke/internal/store/postgres"
)

func cmdMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run the equivalence-class store migration",
		Example: heredoc.Doc(`
			$ duke migrate
		`),
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runMigrations(cfg)
		},
	}
}

func runMigrations(config Config) error {
	logger := initLogger(config.LogLevel)
	logger.Info("duke is migrating", "version", Version)

	pgClient, err := postgres.NewClient(config.DB)
	if err != nil {
		return fmt.Errorf("error creating postgres client: %w", err)
	}
	defer pgClient.Close()

	ver, err := pgClient.Migrate(config.DB)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("migration done", "version", ver)
	return nil
}
