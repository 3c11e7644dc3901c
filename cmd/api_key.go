package cmd

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/checkmarble/marble-enrichment/usecases"
	"github.com/checkmarble/marble-enrichment/utils"
)

// CreateApiKey provisions a tenant credential on the cache backend database and
// prints it. The raw key is only ever shown here.
func CreateApiKey(organizationId, description string) error {
	if organizationId == "" {
		return errors.New("an organization id is required to create an api key")
	}

	pgConfig := readPgConfig()
	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	telemetry := infra.NoopTelemetry()
	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(),
		telemetry.TracerProvider, 1)
	if err != nil {
		return err
	}
	defer pool.Close()

	uc := usecases.NewUsecases(repositories.NewRepositories(repositories.WithConnectionPool(pool)))
	apiKey, rawKey, err := uc.NewApiKeyUsecase().CreateApiKey(ctx, organizationId, description)
	if err != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("error creating api key: %v", err))
		return err
	}

	logger.InfoContext(ctx, "api key created", "api_key_id", apiKey.Id, "org_id", apiKey.OrganizationId)
	fmt.Println(rawKey)
	return nil
}
