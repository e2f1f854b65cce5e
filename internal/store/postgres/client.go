//go:build go1.16
// +build go1.16

// Package postgres provides the durable core/equivalence.Store backing:
// an equivalence-class table migrated with golang-migrate and driven
// through sqlx/pgx.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client wraps a sqlx connection pool.
type Client struct {
	db *sqlx.DB
}

func NewClient(cfg Config) (*Client, error) {
	db, err := sqlx.Connect("pgx", cfg.ConnectionURL().String())
	if err != nil {
		return nil, fmt.Errorf("error creating and connecting DB: %w", err)
	}
	if db == nil {
		return nil, errNilDBClient
	}
	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// RunWithinTx runs f inside one transaction, rolling back on error. It
// is the batching primitive the equivalence Store uses to apply every
// pending AddLink from one Commit call atomically.
func (c *Client) RunWithinTx(ctx context.Context, f func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := f(tx); err != nil {
		if txErr := tx.Rollback(); txErr != nil {
			return fmt.Errorf("rollback transaction error: %v (original error: %w)", txErr, err)
		}
		return err
	}
	return tx.Commit()
}

func (c *Client) Migrate(cfg Config) (ver uint, err error) {
	m, err := initMigration(cfg)
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if ver, _, err = m.Version(); err != nil {
		return ver, err
	}
	return ver, nil
}

func (c *Client) MigrateDown(cfg Config) (ver uint, err error) {
	m, err := initMigration(cfg)
	if err != nil {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration failed: %w", err)
	}
	if ver, _, err = m.Version(); err != nil {
		return ver, err
	}
	return ver, nil
}

func initMigration(cfg Config) (*migrate.Migrate, error) {
	iofsDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		log.Fatal(err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", iofsDriver, cfg.ConnectionURL().String())
	if err != nil {
		log.Fatal(err)
	}
	return m, nil
}

func checkPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w [%s]", errDuplicateKey, pgErr.Detail)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w [%s]", errCheckViolation, pgErr.Detail)
		}
	}
	return err
}
