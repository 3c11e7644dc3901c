package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/marble-enrichment/models"
)

type EnrichmentClient struct {
	mock.Mock
}

func (m *EnrichmentClient) EnrichPerson(ctx context.Context, params models.EnrichPersonParams) (
	models.EnrichmentResult[models.PersonProfile], error,
) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.EnrichmentResult[models.PersonProfile]), args.Error(1)
}

func (m *EnrichmentClient) EnrichCompany(ctx context.Context, params models.EnrichCompanyParams) (
	models.EnrichmentResult[models.CompanyProfile], error,
) {
	args := m.Called(ctx, params)
	return args.Get(0).(models.EnrichmentResult[models.CompanyProfile]), args.Error(1)
}
