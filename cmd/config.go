package cmd

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/marble-enrichment/api"
	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/repositories/localstore"
	"github.com/checkmarble/marble-enrichment/utils"
)

type CompiledConfig struct {
	Version string
}

type commonConfig struct {
	loggingFormat string
	sentryDsn     string
}

func readCommonConfig() commonConfig {
	return commonConfig{
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
	}
}

func readApiConfig(appName string) api.Configuration {
	return api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             appName,
		Port:                utils.GetRequiredEnv[string]("PORT"),
		CorsAllowedOrigins:  utils.GetEnv("CORS_ALLOWED_ORIGINS", ""),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", "all"),
		DefaultTimeout:      utils.GetEnv("DEFAULT_TIMEOUT", 5*time.Second),
		ResolveTimeout:      utils.GetEnv("RESOLVE_TIMEOUT", 30*time.Second),
	}
}

func readTelemetryConfig(appName string) infra.TelemetryConfiguration {
	return infra.TelemetryConfiguration{
		Enabled:         utils.GetEnv("ENABLE_TRACING", false),
		ApplicationName: appName,
		SamplingRate:    utils.GetEnv("TRACING_SAMPLING_RATE", infra.DEFAULT_SAMPLING_RATE),
	}
}

func readPgConfig() infra.PgConfig {
	return infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:           utils.GetEnv("PG_DATABASE", "marble_enrichment"),
		Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", ""),
		MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
}

type ServerConfig struct {
	enrichment           infra.EnrichmentConfiguration
	sharedCache          infra.SharedCacheConfiguration
	localCache           infra.LocalCacheConfiguration
	credentialsCacheSize int
	credentialsCacheTTL  time.Duration
	shutdownGracePeriod  time.Duration
}

func readServerConfig() ServerConfig {
	return ServerConfig{
		enrichment: infra.EnrichmentConfiguration{
			Host:           utils.GetEnv("ENRICHMENT_API_HOST", infra.ENRICHMENT_API_HOST),
			ApiKey:         utils.GetEnv("ENRICHMENT_API_KEY", ""),
			RateLimit:      utils.GetEnv("ENRICHMENT_RATE_LIMIT", float64(infra.DEFAULT_ENRICHMENT_RATE_LIMIT)),
			RequestTimeout: utils.GetEnv("ENRICHMENT_REQUEST_TIMEOUT", 10*time.Second),
		},
		sharedCache: infra.SharedCacheConfiguration{
			Url:            utils.GetEnv("SHARED_CACHE_URL", ""),
			RequestTimeout: utils.GetEnv("SHARED_CACHE_REQUEST_TIMEOUT", 5*time.Second),
		},
		localCache: infra.LocalCacheConfiguration{
			Driver:        utils.GetEnv("LOCAL_CACHE_DRIVER", localstore.DriverMemory),
			Path:          utils.GetEnv("LOCAL_CACHE_PATH", ""),
			CapacityBytes: utils.GetEnv("LOCAL_CACHE_CAPACITY_BYTES", 50*1024*1024),
		},
		credentialsCacheSize: utils.GetEnv("CREDENTIALS_CACHE_SIZE", api.DEFAULT_CREDENTIALS_CACHE_SIZE),
		credentialsCacheTTL:  utils.GetEnv("CREDENTIALS_CACHE_TTL", api.DEFAULT_CREDENTIALS_CACHE_TTL),
		shutdownGracePeriod:  utils.GetEnv("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func (config ServerConfig) Validate() error {
	if config.sharedCache.Url == "" {
		return errors.New("SHARED_CACHE_URL is required: api keys are resolved by the shared cache backend")
	}
	if config.localCache.CapacityBytes < 0 {
		return errors.New("LOCAL_CACHE_CAPACITY_BYTES must not be negative")
	}
	if config.localCache.Driver != localstore.DriverMemory && config.localCache.Driver != localstore.DriverSqlite {
		return errors.Newf("LOCAL_CACHE_DRIVER must be %q or %q", localstore.DriverMemory, localstore.DriverSqlite)
	}
	return nil
}
