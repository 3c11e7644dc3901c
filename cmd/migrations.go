package cmd

import (
	"context"
	"fmt"

	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/checkmarble/marble-enrichment/utils"
)

// RunMigrations applies the schema of the shared cache backend.
func RunMigrations() error {
	pgConfig := readPgConfig()

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	migrater := repositories.NewMigrater(pgConfig)
	if err := migrater.Run(ctx); err != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("error running migrations: %v", err))
		return err
	}

	return nil
}
