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
	"github.com/checkmarble/marble-enrichment/repositories/clock"
	"github.com/checkmarble/marble-enrichment/repositories/localstore"
	"github.com/checkmarble/marble-enrichment/usecases"
	"github.com/checkmarble/marble-enrichment/usecases/localcache"
	"github.com/checkmarble/marble-enrichment/utils"
)

// RunServer starts an enrichment server instance: it owns a local cache tier and
// reaches the shared tier through the cache backend api.
func RunServer(compiled CompiledConfig) error {
	apiConfig := readApiConfig("marble-enrichment")
	common := readCommonConfig()
	serverConfig := readServerConfig()

	logger := utils.NewLogger(common.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := serverConfig.Validate(); err != nil {
		logger.ErrorContext(ctx, err.Error())
		return err
	}

	infra.SetupSentry(common.sentryDsn, apiConfig.Env, compiled.Version)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(ctx, readTelemetryConfig(apiConfig.AppName), compiled.Version)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}
	ctx = utils.StoreTracerInContext(ctx, telemetryRessources.Tracer)

	enrichmentService := infra.InitializeEnrichmentService(serverConfig.enrichment)
	if !enrichmentService.IsConfigured() {
		logger.WarnContext(ctx, "ENRICHMENT_API_KEY is not set, resolutions that miss both cache tiers will fail")
	}

	repos := repositories.NewRepositories(
		repositories.WithEnrichmentService(enrichmentService),
		repositories.WithSharedCache(serverConfig.sharedCache),
	)

	localConfig := serverConfig.localCache
	localCache := localcache.New(func(ctx context.Context) (localstore.KeyValueStore, error) {
		return localstore.Open(ctx, localConfig.Driver, localConfig.Path, localConfig.CapacityBytes)
	}, clock.New())
	defer func() {
		if err := localCache.Close(); err != nil {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "could not close the local cache store"))
		}
	}()

	uc := usecases.NewUsecases(repos,
		usecases.WithLocalCache(localCache),
		usecases.WithApiVersion(compiled.Version),
	)

	// opens the local store now rather than on the first request
	if !localCache.IsAvailable(ctx) {
		logger.WarnContext(ctx, "local cache store is unavailable, running without the local tier",
			"driver", localConfig.Driver)
	}

	auth := api.NewAuthentication(api.CachedCredentialsResolver(
		repos.SharedCacheClientRepository.Credentials,
		serverConfig.credentialsCacheSize,
		serverConfig.credentialsCacheTTL,
	))

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	api.AddEnrichmentRoutes(router, apiConfig, uc, auth)
	server := api.NewServer(router, apiConfig)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting enrichment server",
			slog.String("port", apiConfig.Port),
			slog.String("version", compiled.Version))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, serverConfig.shutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while shutting down the server"))
		return err
	}

	waitForPendingWrites(shutdownCtx, uc.NewEnrichmentUsecase())

	if err := telemetryRessources.Shutdown(shutdownCtx); err != nil {
		logger.WarnContext(ctx, "could not flush traces", "error", err.Error())
	}

	return nil
}

// waitForPendingWrites lets in-flight shared cache writes land, within the grace period.
func waitForPendingWrites(ctx context.Context, uc *usecases.EnrichmentUsecase) {
	done := make(chan struct{})
	go func() {
		uc.WaitForPendingWrites()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		utils.LoggerFromContext(ctx).WarnContext(ctx, "shutting down with shared cache writes still pending")
	}
}
