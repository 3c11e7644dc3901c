package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/marble-enrichment/mocks"
	"github.com/checkmarble/marble-enrichment/models"
)

func TestHealthUsecase(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	repo.On("Liveness", mock.Anything, mock.Anything).Return(models.StorageError)

	health := HealthUsecase{
		executorGetter:     mocks.ExecutorGetter{},
		livenessRepository: repo,
	}

	status := health.GetHealthStatus(context.Background())

	assert.False(t, status.IsHealthy())
	assert.Equal(t, []models.HealthItemStatus{
		{Name: models.DatabaseHealthItemName, Status: false},
	}, status.Statuses)
}
