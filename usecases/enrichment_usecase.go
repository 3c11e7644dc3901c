package usecases

import (
	"context"
	"sync"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/usecases/textextract"
	"github.com/checkmarble/marble-enrichment/utils"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
)

type EnrichmentClient interface {
	EnrichPerson(ctx context.Context, params models.EnrichPersonParams) (models.EnrichmentResult[models.PersonProfile], error)
	EnrichCompany(ctx context.Context, params models.EnrichCompanyParams) (models.EnrichmentResult[models.CompanyProfile], error)
}

type LocalCacheTier interface {
	GetPerson(ctx context.Context, key models.LookupKey) (*models.CacheEntry[models.PersonProfile], bool)
	GetCompany(ctx context.Context, key models.LookupKey) (*models.CacheEntry[models.CompanyProfile], bool)
	SetPerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile, likelihood int)
	SetCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile, likelihood int)
	ClearOrganization(ctx context.Context, organizationId string) error
}

type SharedCacheTier interface {
	GetPerson(ctx context.Context, key models.LookupKey, credential string) (*models.CacheEntry[models.PersonProfile], bool)
	GetCompany(ctx context.Context, key models.LookupKey, credential string) (*models.CacheEntry[models.CompanyProfile], bool)
	SavePerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile, likelihood int, credential string)
	SaveCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile, likelihood int, credential string)
}

// EnrichmentUsecase resolves identity hints through the local tier, then the shared
// tier, then the enrichment service. Only confident matches are returned or cached.
type EnrichmentUsecase struct {
	enrichmentClient EnrichmentClient
	localCache       LocalCacheTier
	sharedCache      SharedCacheTier
	extractor        textextract.Extractor

	pendingWrites sync.WaitGroup
}

// NewEnrichmentUsecase builds the orchestrator. sharedCache may be nil, the shared
// tier is then skipped.
func NewEnrichmentUsecase(
	enrichmentClient EnrichmentClient,
	localCache LocalCacheTier,
	sharedCache SharedCacheTier,
	extractor textextract.Extractor,
) *EnrichmentUsecase {
	return &EnrichmentUsecase{
		enrichmentClient: enrichmentClient,
		localCache:       localCache,
		sharedCache:      sharedCache,
		extractor:        extractor,
	}
}

// tier operations for one entity type
type resolver[T any] struct {
	localGet   func(ctx context.Context, key models.LookupKey) (*models.CacheEntry[T], bool)
	localSet   func(ctx context.Context, key models.LookupKey, profile T, likelihood int)
	sharedGet  func(ctx context.Context, key models.LookupKey, credential string) (*models.CacheEntry[T], bool)
	sharedSave func(ctx context.Context, key models.LookupKey, profile T, likelihood int, credential string)
	remote     func(ctx context.Context) (models.EnrichmentResult[T], error)
}

func (usecase *EnrichmentUsecase) ResolvePerson(ctx context.Context, hint models.PersonIdentityHint) (
	*models.Resolution[models.PersonProfile], error,
) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	creds, _ := utils.CredentialsFromCtx(ctx)
	key, err := models.NewPersonLookupKey(organizationId, hint)
	if err != nil {
		return nil, err
	}

	r := resolver[models.PersonProfile]{
		localGet: usecase.localCache.GetPerson,
		localSet: usecase.localCache.SetPerson,
		remote: func(ctx context.Context) (models.EnrichmentResult[models.PersonProfile], error) {
			return usecase.enrichmentClient.EnrichPerson(ctx, hint.EnrichParams())
		},
	}
	if usecase.sharedCache != nil {
		r.sharedGet = usecase.sharedCache.GetPerson
		r.sharedSave = usecase.sharedCache.SavePerson
	}

	return resolve(ctx, usecase, key, creds.Key, r)
}

func (usecase *EnrichmentUsecase) ResolveCompany(ctx context.Context, hint models.CompanyIdentityHint) (
	*models.Resolution[models.CompanyProfile], error,
) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	creds, _ := utils.CredentialsFromCtx(ctx)
	key, err := models.NewCompanyLookupKey(organizationId, hint)
	if err != nil {
		return nil, err
	}

	r := resolver[models.CompanyProfile]{
		localGet: usecase.localCache.GetCompany,
		localSet: usecase.localCache.SetCompany,
		remote: func(ctx context.Context) (models.EnrichmentResult[models.CompanyProfile], error) {
			return usecase.enrichmentClient.EnrichCompany(ctx, hint.EnrichParams())
		},
	}
	if usecase.sharedCache != nil {
		r.sharedGet = usecase.sharedCache.GetCompany
		r.sharedSave = usecase.sharedCache.SaveCompany
	}

	return resolve(ctx, usecase, key, creds.Key, r)
}

func resolve[T any](
	ctx context.Context,
	usecase *EnrichmentUsecase,
	key models.LookupKey,
	credential string,
	r resolver[T],
) (*models.Resolution[T], error) {
	ctx, span := utils.StartSpan(ctx, "EnrichmentUsecase.Resolve",
		attribute.String("entity_type", string(key.EntityType)),
		attribute.String("org_id", key.OrganizationId))
	defer span.End()

	logger := utils.LoggerFromContext(ctx).With(
		"entity_type", key.EntityType,
		"org_id", key.OrganizationId,
	)

	if entry, ok := r.localGet(ctx, key); ok {
		span.SetAttributes(attribute.String("source", string(models.ResolutionSourceLocal)))
		return &models.Resolution[T]{
			Profile:    entry.Payload,
			Likelihood: entry.Likelihood,
			Source:     models.ResolutionSourceLocal,
		}, nil
	}

	if r.sharedGet != nil {
		if entry, ok := r.sharedGet(ctx, key, credential); ok {
			r.localSet(ctx, key, entry.Payload, entry.Likelihood)
			span.SetAttributes(attribute.String("source", string(models.ResolutionSourceShared)))
			return &models.Resolution[T]{
				Profile:    entry.Payload,
				Likelihood: entry.Likelihood,
				Source:     models.ResolutionSourceShared,
			}, nil
		}
	}

	result, err := r.remote(ctx)
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case models.EnrichmentFailed:
		if result.Failure.IsNoMatch() {
			return nil, nil
		}
		return nil, errors.WithStack(result.Failure)
	case models.EnrichmentNoMatch:
		return nil, nil
	}

	if !result.IsConfident() {
		logger.DebugContext(ctx, "discarding low confidence match", "likelihood", result.Likelihood)
		return nil, nil
	}

	r.localSet(ctx, key, result.Profile, result.Likelihood)

	if r.sharedSave != nil {
		usecase.pendingWrites.Add(1)
		go func() {
			defer usecase.pendingWrites.Done()
			r.sharedSave(context.WithoutCancel(ctx), key, result.Profile, result.Likelihood, credential)
		}()
	}

	span.SetAttributes(attribute.String("source", string(models.ResolutionSourceRemote)))
	return &models.Resolution[T]{
		Profile:    result.Profile,
		Likelihood: result.Likelihood,
		Source:     models.ResolutionSourceRemote,
	}, nil
}

// WaitForPendingWrites blocks until every background shared cache write is done.
func (usecase *EnrichmentUsecase) WaitForPendingWrites() {
	usecase.pendingWrites.Wait()
}

func (usecase *EnrichmentUsecase) ExtractEntities(text string) models.ExtractedEntities {
	return textextract.Extract(usecase.extractor, text)
}

// ClearLocalCache wipes the local tier of this instance for the organization of the
// caller. Other organizations keep their entries.
func (usecase *EnrichmentUsecase) ClearLocalCache(ctx context.Context) error {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return err
	}
	return usecase.localCache.ClearOrganization(ctx, organizationId)
}
