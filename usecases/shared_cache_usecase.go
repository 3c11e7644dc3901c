package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/checkmarble/marble-enrichment/utils"
	"github.com/cockroachdb/errors"
)

type ExecutorGetter interface {
	Executor() repositories.Executor
}

type SharedCacheRepository interface {
	ListSharedCacheEntries(ctx context.Context, exec repositories.Executor, key models.LookupKey) ([]models.SharedCacheEntry, error)
	UpsertSharedCacheEntry(ctx context.Context, exec repositories.Executor,
		input models.SharedCacheEntryInput) (models.SharedCacheEntry, error)
	DeleteSharedCacheEntries(ctx context.Context, exec repositories.Executor, key models.LookupKey) (int64, error)
}

// SharedCacheUsecase serves the shared tier to enrichment servers. Every operation is
// scoped to the organization of the credentials in the context.
type SharedCacheUsecase struct {
	executorGetter ExecutorGetter
	repository     SharedCacheRepository
}

func NewSharedCacheUsecase(executorGetter ExecutorGetter, repository SharedCacheRepository) SharedCacheUsecase {
	return SharedCacheUsecase{
		executorGetter: executorGetter,
		repository:     repository,
	}
}

func (usecase SharedCacheUsecase) ListPersonEntries(ctx context.Context, hint models.PersonIdentityHint) (
	[]models.SharedCacheEntry, error,
) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, err := models.NewPersonLookupKey(organizationId, hint)
	if err != nil {
		return nil, err
	}
	return usecase.list(ctx, key)
}

func (usecase SharedCacheUsecase) ListCompanyEntries(ctx context.Context, hint models.CompanyIdentityHint) (
	[]models.SharedCacheEntry, error,
) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, err := models.NewCompanyLookupKey(organizationId, hint)
	if err != nil {
		return nil, err
	}
	return usecase.list(ctx, key)
}

func (usecase SharedCacheUsecase) list(ctx context.Context, key models.LookupKey) ([]models.SharedCacheEntry, error) {
	entries, err := usecase.repository.ListSharedCacheEntries(ctx, usecase.executorGetter.Executor(), key)
	if err != nil {
		return nil, errors.Wrap(err, "could not list shared cache entries")
	}

	result := "miss"
	if len(entries) > 0 {
		result = "hit"
	}
	utils.MetricCacheLookups.WithLabelValues("shared_backend", string(key.EntityType), result).Inc()

	return entries, nil
}

func (usecase SharedCacheUsecase) SavePersonEntry(ctx context.Context, hint models.PersonIdentityHint,
	payload json.RawMessage, likelihood int,
) (models.SharedCacheEntry, error) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return models.SharedCacheEntry{}, err
	}
	key, err := models.NewPersonLookupKey(organizationId, hint)
	if err != nil {
		return models.SharedCacheEntry{}, err
	}
	return usecase.save(ctx, key, payload, likelihood)
}

func (usecase SharedCacheUsecase) SaveCompanyEntry(ctx context.Context, hint models.CompanyIdentityHint,
	payload json.RawMessage, likelihood int,
) (models.SharedCacheEntry, error) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return models.SharedCacheEntry{}, err
	}
	key, err := models.NewCompanyLookupKey(organizationId, hint)
	if err != nil {
		return models.SharedCacheEntry{}, err
	}
	return usecase.save(ctx, key, payload, likelihood)
}

func (usecase SharedCacheUsecase) save(ctx context.Context, key models.LookupKey,
	payload json.RawMessage, likelihood int,
) (models.SharedCacheEntry, error) {
	if likelihood < models.MinimumLikelihood || likelihood > 10 {
		return models.SharedCacheEntry{}, errors.Wrap(models.BadParameterError,
			fmt.Sprintf("likelihood must be between %d and 10, got %d", models.MinimumLikelihood, likelihood))
	}
	if !json.Valid(payload) {
		return models.SharedCacheEntry{}, errors.Wrap(models.BadParameterError, "payload is not valid json")
	}

	entry, err := usecase.repository.UpsertSharedCacheEntry(ctx, usecase.executorGetter.Executor(),
		models.SharedCacheEntryInput{
			Key:        key,
			Payload:    payload,
			Likelihood: likelihood,
		})
	if err != nil {
		return models.SharedCacheEntry{}, errors.Wrap(err, "could not write shared cache entry")
	}

	utils.LoggerFromContext(ctx).DebugContext(ctx, "shared cache entry written",
		"entity_type", key.EntityType,
		"entry_id", entry.Id)

	return entry, nil
}

func (usecase SharedCacheUsecase) InvalidatePersonEntries(ctx context.Context, hint models.PersonIdentityHint) (int64, error) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return 0, err
	}
	key, err := models.NewPersonLookupKey(organizationId, hint)
	if err != nil {
		return 0, err
	}
	return usecase.repository.DeleteSharedCacheEntries(ctx, usecase.executorGetter.Executor(), key)
}

func (usecase SharedCacheUsecase) InvalidateCompanyEntries(ctx context.Context, hint models.CompanyIdentityHint) (int64, error) {
	organizationId, err := utils.OrganizationIdFromContext(ctx)
	if err != nil {
		return 0, err
	}
	key, err := models.NewCompanyLookupKey(organizationId, hint)
	if err != nil {
		return 0, err
	}
	return usecase.repository.DeleteSharedCacheEntries(ctx, usecase.executorGetter.Executor(), key)
}
