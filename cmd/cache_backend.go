package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"

	"github.com/checkmarble/marble-enrichment/api"
	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/checkmarble/marble-enrichment/usecases"
	"github.com/checkmarble/marble-enrichment/utils"
)

// RunCacheBackend serves the shared cache tier on top of PostgreSQL.
func RunCacheBackend(compiled CompiledConfig) error {
	apiConfig := readApiConfig("marble-enrichment-cache")
	common := readCommonConfig()
	pgConfig := readPgConfig()

	logger := utils.NewLogger(common.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(common.sentryDsn, apiConfig.Env, compiled.Version)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(ctx, readTelemetryConfig(apiConfig.AppName), compiled.Version)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}
	ctx = utils.StoreTracerInContext(ctx, telemetryRessources.Tracer)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(),
		telemetryRessources.TracerProvider, pgConfig.MaxPoolConnections)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	defer pool.Close()

	repos := repositories.NewRepositories(repositories.WithConnectionPool(pool))
	uc := usecases.NewUsecases(repos, usecases.WithApiVersion(compiled.Version))

	auth := api.NewAuthentication(uc.NewApiKeyUsecase().CredentialsFromApiKey)

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	api.AddCacheBackendRoutes(router, apiConfig, uc, auth)
	server := api.NewServer(router, apiConfig)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting shared cache backend",
			slog.String("port", apiConfig.Port),
			slog.String("version", compiled.Version))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while shutting down the server"))
		return err
	}

	if err := telemetryRessources.Shutdown(shutdownCtx); err != nil {
		logger.WarnContext(ctx, "could not flush traces", "error", err.Error())
	}

	return nil
}
