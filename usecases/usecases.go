package usecases

import (
	"sync"

	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/checkmarble/marble-enrichment/usecases/localcache"
	"github.com/checkmarble/marble-enrichment/usecases/sharedcache"
	"github.com/checkmarble/marble-enrichment/usecases/textextract"
)

type Usecases struct {
	Repositories repositories.Repositories
	localCache   *localcache.LocalCache
	extractor    textextract.Extractor
	apiVersion   string

	enrichmentOnce    sync.Once
	enrichmentUsecase *EnrichmentUsecase
}

type options struct {
	localCache *localcache.LocalCache
	extractor  textextract.Extractor
	apiVersion string
}

type Option func(*options)

func WithLocalCache(cache *localcache.LocalCache) Option {
	return func(o *options) {
		o.localCache = cache
	}
}

func WithExtractor(extractor textextract.Extractor) Option {
	return func(o *options) {
		o.extractor = extractor
	}
}

func WithApiVersion(apiVersion string) Option {
	return func(o *options) {
		o.apiVersion = apiVersion
	}
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) *Usecases {
	options := &options{
		extractor: textextract.NewRegexExtractor(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Usecases{
		Repositories: repositories,
		localCache:   options.localCache,
		extractor:    options.extractor,
		apiVersion:   options.apiVersion,
	}
}

// NewEnrichmentUsecase always returns the same instance: pending shared cache writes
// are tracked on it.
func (usecases *Usecases) NewEnrichmentUsecase() *EnrichmentUsecase {
	usecases.enrichmentOnce.Do(func() {
		var shared SharedCacheTier
		if usecases.Repositories.SharedCacheClientRepository != nil {
			shared = sharedcache.New(usecases.Repositories.SharedCacheClientRepository)
		}

		usecases.enrichmentUsecase = NewEnrichmentUsecase(
			usecases.Repositories.EnrichmentRepository,
			usecases.localCache,
			shared,
			usecases.extractor,
		)
	})
	return usecases.enrichmentUsecase
}

func (usecases *Usecases) NewSharedCacheUsecase() SharedCacheUsecase {
	return NewSharedCacheUsecase(
		usecases.Repositories.ExecutorGetter,
		usecases.Repositories.EnrichmentDbRepository,
	)
}

func (usecases *Usecases) NewApiKeyUsecase() ApiKeyUsecase {
	return NewApiKeyUsecase(
		usecases.Repositories.ExecutorGetter,
		usecases.Repositories.EnrichmentDbRepository,
	)
}

func (usecases *Usecases) NewHealthUsecase() HealthUsecase {
	health := HealthUsecase{}

	if usecases.Repositories.EnrichmentRepository != nil {
		health.enrichment = usecases.Repositories.EnrichmentRepository
		if usecases.localCache != nil {
			health.localCache = usecases.localCache
		}
	} else {
		health.executorGetter = usecases.Repositories.ExecutorGetter
		health.livenessRepository = usecases.Repositories.EnrichmentDbRepository
	}

	return health
}

func (usecases *Usecases) ApiVersion() string {
	return usecases.apiVersion
}
