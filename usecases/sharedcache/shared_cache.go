package sharedcache

import (
	"context"
	"encoding/json"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/utils"
)

type SharedCacheClient interface {
	LookupPerson(ctx context.Context, key models.LookupKey, credential string) (*models.SharedCacheEntry, error)
	LookupCompany(ctx context.Context, key models.LookupKey, credential string) (*models.SharedCacheEntry, error)
	SavePerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile,
		likelihood int, credential string) error
	SaveCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile,
		likelihood int, credential string) error
}

// SharedCache is the best-effort policy over the shared tier: a failed read is a
// miss and a failed write is dropped, both are logged.
type SharedCache struct {
	client SharedCacheClient
}

func New(client SharedCacheClient) SharedCache {
	return SharedCache{client: client}
}

func (s SharedCache) GetPerson(ctx context.Context, key models.LookupKey, credential string) (
	*models.CacheEntry[models.PersonProfile], bool,
) {
	entry, err := s.client.LookupPerson(ctx, key, credential)
	return decodeEntry[models.PersonProfile](ctx, key, entry, err)
}

func (s SharedCache) GetCompany(ctx context.Context, key models.LookupKey, credential string) (
	*models.CacheEntry[models.CompanyProfile], bool,
) {
	entry, err := s.client.LookupCompany(ctx, key, credential)
	return decodeEntry[models.CompanyProfile](ctx, key, entry, err)
}

func (s SharedCache) SavePerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile,
	likelihood int, credential string,
) {
	if err := s.client.SavePerson(ctx, key, profile, likelihood, credential); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write shared cache entry",
			"entity_type", key.EntityType, "error", err.Error())
	}
}

func (s SharedCache) SaveCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile,
	likelihood int, credential string,
) {
	if err := s.client.SaveCompany(ctx, key, profile, likelihood, credential); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not write shared cache entry",
			"entity_type", key.EntityType, "error", err.Error())
	}
}

func decodeEntry[T any](ctx context.Context, key models.LookupKey, entry *models.SharedCacheEntry, err error) (
	*models.CacheEntry[T], bool,
) {
	logger := utils.LoggerFromContext(ctx)

	result, ok := func() (*models.CacheEntry[T], bool) {
		if err != nil {
			logger.WarnContext(ctx, "could not read shared cache", "entity_type", key.EntityType, "error", err.Error())
			return nil, false
		}
		if entry == nil {
			return nil, false
		}
		if entry.Likelihood < models.MinimumLikelihood {
			return nil, false
		}

		var payload T
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			logger.WarnContext(ctx, "could not decode shared cache entry", "id", entry.Id, "error", err.Error())
			return nil, false
		}

		return &models.CacheEntry[T]{
			Payload:        payload,
			Timestamp:      entry.UpdatedAt,
			OrganizationId: key.OrganizationId,
			Likelihood:     entry.Likelihood,
		}, true
	}()

	outcome := "miss"
	if ok {
		outcome = "hit"
	}
	utils.MetricCacheLookups.WithLabelValues("shared", string(key.EntityType), outcome).Inc()

	return result, ok
}
