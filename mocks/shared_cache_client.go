package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/marble-enrichment/models"
)

type SharedCacheClient struct {
	mock.Mock
}

func (m *SharedCacheClient) LookupPerson(ctx context.Context, key models.LookupKey, credential string) (
	*models.SharedCacheEntry, error,
) {
	args := m.Called(ctx, key, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedCacheEntry), args.Error(1)
}

func (m *SharedCacheClient) LookupCompany(ctx context.Context, key models.LookupKey, credential string) (
	*models.SharedCacheEntry, error,
) {
	args := m.Called(ctx, key, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedCacheEntry), args.Error(1)
}

func (m *SharedCacheClient) SavePerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile,
	likelihood int, credential string,
) error {
	args := m.Called(ctx, key, profile, likelihood, credential)
	return args.Error(0)
}

func (m *SharedCacheClient) SaveCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile,
	likelihood int, credential string,
) error {
	args := m.Called(ctx, key, profile, likelihood, credential)
	return args.Error(0)
}

func (m *SharedCacheClient) Credentials(ctx context.Context, credential string) (models.Credentials, error) {
	args := m.Called(ctx, credential)
	return args.Get(0).(models.Credentials), args.Error(1)
}
