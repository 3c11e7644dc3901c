package repositories

import (
	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/jackc/pgx/v5/pgxpool"
)

type options struct {
	pool              *pgxpool.Pool
	enrichment        *infra.EnrichmentService
	sharedCacheConfig *infra.SharedCacheConfiguration
}

type Option func(*options)

func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

func WithEnrichmentService(service infra.EnrichmentService) Option {
	return func(o *options) {
		o.enrichment = &service
	}
}

func WithSharedCache(config infra.SharedCacheConfiguration) Option {
	return func(o *options) {
		o.sharedCacheConfig = &config
	}
}

// Repositories holds the repositories of the running mode. The enrichment server has
// no database, the cache backend has no enrichment service.
type Repositories struct {
	ExecutorGetter              ExecutorGetter
	EnrichmentDbRepository      *EnrichmentDbRepository
	EnrichmentRepository        *EnrichmentRepository
	SharedCacheClientRepository *SharedCacheClientRepository
}

func NewRepositories(opts ...Option) Repositories {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}

	repositories := Repositories{
		EnrichmentDbRepository: NewEnrichmentDbRepository(),
	}

	if options.pool != nil {
		repositories.ExecutorGetter = NewExecutorGetter(options.pool)
	}
	if options.enrichment != nil {
		repositories.EnrichmentRepository = NewEnrichmentRepository(*options.enrichment)
	}
	if options.sharedCacheConfig != nil && options.sharedCacheConfig.Url != "" {
		client := NewSharedCacheClientRepository(*options.sharedCacheConfig, nil)
		repositories.SharedCacheClientRepository = &client
	}

	return repositories
}
