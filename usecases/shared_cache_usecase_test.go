package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/marble-enrichment/mocks"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/utils"
)

func tenantContext(organizationId string) context.Context {
	return utils.StoreCredentialsInContext(context.Background(), models.Credentials{
		OrganizationId: organizationId,
		Key:            "tenant-key",
	})
}

func TestSharedCacheUsecase_ListIsTenantScoped(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewSharedCacheUsecase(mocks.ExecutorGetter{}, repo)

	hint := models.PersonIdentityHint{FirstName: "Jane", LastName: "Doe"}
	key, err := models.NewPersonLookupKey("org-a", hint)
	require.NoError(t, err)

	entries := []models.SharedCacheEntry{{Id: "e1", OrganizationId: "org-a", Likelihood: 8}}
	repo.On("ListSharedCacheEntries", mock.Anything, mock.Anything, key).Return(entries, nil)

	got, err := usecase.ListPersonEntries(tenantContext("org-a"), hint)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	repo.AssertExpectations(t)
}

func TestSharedCacheUsecase_RequiresCredentials(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewSharedCacheUsecase(mocks.ExecutorGetter{}, repo)

	_, err := usecase.ListCompanyEntries(context.Background(), models.CompanyIdentityHint{Name: "Acme"})

	assert.ErrorIs(t, err, models.ForbiddenError)
	repo.AssertNotCalled(t, "ListSharedCacheEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestSharedCacheUsecase_SaveValidatesEntries(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewSharedCacheUsecase(mocks.ExecutorGetter{}, repo)
	ctx := tenantContext("org-a")
	hint := models.CompanyIdentityHint{Name: "Acme"}

	_, err := usecase.SaveCompanyEntry(ctx, hint, json.RawMessage(`{"id":"c1"}`), 5)
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = usecase.SaveCompanyEntry(ctx, hint, json.RawMessage(`{"id":`), 8)
	assert.ErrorIs(t, err, models.BadParameterError)

	repo.AssertNotCalled(t, "UpsertSharedCacheEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestSharedCacheUsecase_SaveUpserts(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewSharedCacheUsecase(mocks.ExecutorGetter{}, repo)
	hint := models.PersonIdentityHint{FirstName: "Jane", LastName: "Doe", Company: "Acme"}
	key, err := models.NewPersonLookupKey("org-a", hint)
	require.NoError(t, err)

	payload := json.RawMessage(`{"id":"p1"}`)
	input := models.SharedCacheEntryInput{Key: key, Payload: payload, Likelihood: 6}
	repo.On("UpsertSharedCacheEntry", mock.Anything, mock.Anything, input).
		Return(models.SharedCacheEntry{Id: "e1", Likelihood: 6}, nil)

	entry, err := usecase.SavePersonEntry(tenantContext("org-a"), hint, payload, 6)

	require.NoError(t, err)
	assert.Equal(t, "e1", entry.Id)
	repo.AssertExpectations(t)
}

func TestSharedCacheUsecase_Invalidate(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewSharedCacheUsecase(mocks.ExecutorGetter{}, repo)
	hint := models.CompanyIdentityHint{Name: "Acme"}
	key, err := models.NewCompanyLookupKey("org-b", hint)
	require.NoError(t, err)

	repo.On("DeleteSharedCacheEntries", mock.Anything, mock.Anything, key).Return(int64(2), nil)

	deleted, err := usecase.InvalidateCompanyEntries(tenantContext("org-b"), hint)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	repo.AssertExpectations(t)
}
