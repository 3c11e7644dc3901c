package usecases

import (
	"context"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories"
)

type livenessRepository interface {
	Liveness(ctx context.Context, exec repositories.Executor) error
}

type enrichmentConfigurationChecker interface {
	IsConfigured() bool
}

type localCacheAvailability interface {
	IsAvailable(ctx context.Context) bool
}

// HealthUsecase reports the state of the dependencies of the running mode. Unset
// dependencies are not reported.
type HealthUsecase struct {
	executorGetter     ExecutorGetter
	livenessRepository livenessRepository
	enrichment         enrichmentConfigurationChecker
	localCache         localCacheAvailability
}

func (u HealthUsecase) GetHealthStatus(ctx context.Context) models.HealthStatus {
	statuses := []models.HealthItemStatus{}

	if u.livenessRepository != nil {
		err := u.livenessRepository.Liveness(ctx, u.executorGetter.Executor())
		statuses = append(statuses, models.HealthItemStatus{
			Name:   models.DatabaseHealthItemName,
			Status: err == nil,
		})
	}

	if u.enrichment != nil {
		statuses = append(statuses, models.HealthItemStatus{
			Name:   models.EnrichmentServiceHealthItemName,
			Status: u.enrichment.IsConfigured(),
		})
	}

	if u.localCache != nil {
		statuses = append(statuses, models.HealthItemStatus{
			Name:   models.LocalCacheHealthItemName,
			Status: u.localCache.IsAvailable(ctx),
		})
	}

	return models.HealthStatus{
		Statuses: statuses,
	}
}
