package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Migrater struct {
	pgConfig infra.PgConfig
}

func NewMigrater(pgConfig infra.PgConfig) *Migrater {
	return &Migrater{pgConfig: pgConfig}
}

func (m *Migrater) Run(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	db, err := sql.Open("pgx", m.pgConfig.GetConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.InfoContext(ctx, "Migrations starting to setup DB")

	migrationsFs, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrationsFs)
	if err != nil {
		return fmt.Errorf("unable to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("unable to run migrations: %w", err)
	}
	for _, result := range results {
		logger.InfoContext(ctx, "applied migration", "source", result.Source.Path, "duration", result.Duration)
	}
	return nil
}
