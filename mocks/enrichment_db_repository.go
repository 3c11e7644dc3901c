package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories"
)

type EnrichmentDbRepository struct {
	mock.Mock
}

func (m *EnrichmentDbRepository) ListSharedCacheEntries(ctx context.Context, exec repositories.Executor,
	key models.LookupKey,
) ([]models.SharedCacheEntry, error) {
	args := m.Called(ctx, exec, key)
	return args.Get(0).([]models.SharedCacheEntry), args.Error(1)
}

func (m *EnrichmentDbRepository) UpsertSharedCacheEntry(ctx context.Context, exec repositories.Executor,
	input models.SharedCacheEntryInput,
) (models.SharedCacheEntry, error) {
	args := m.Called(ctx, exec, input)
	return args.Get(0).(models.SharedCacheEntry), args.Error(1)
}

func (m *EnrichmentDbRepository) DeleteSharedCacheEntries(ctx context.Context, exec repositories.Executor,
	key models.LookupKey,
) (int64, error) {
	args := m.Called(ctx, exec, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EnrichmentDbRepository) GetApiKeyByHash(ctx context.Context, exec repositories.Executor,
	hash []byte,
) (models.ApiKey, error) {
	args := m.Called(ctx, exec, hash)
	return args.Get(0).(models.ApiKey), args.Error(1)
}

func (m *EnrichmentDbRepository) CreateApiKey(ctx context.Context, exec repositories.Executor,
	organizationId, description string, hash []byte,
) (models.ApiKey, error) {
	args := m.Called(ctx, exec, organizationId, description, hash)
	return args.Get(0).(models.ApiKey), args.Error(1)
}

func (m *EnrichmentDbRepository) Liveness(ctx context.Context, exec repositories.Executor) error {
	args := m.Called(ctx, exec)
	return args.Error(0)
}

// ExecutorGetter hands out a nil executor, for repositories mocked above it.
type ExecutorGetter struct{}

func (ExecutorGetter) Executor() repositories.Executor {
	return nil
}
