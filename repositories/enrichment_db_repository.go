package repositories

type EnrichmentDbRepository struct{}

func NewEnrichmentDbRepository() *EnrichmentDbRepository {
	return &EnrichmentDbRepository{}
}
