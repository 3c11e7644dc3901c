package infra

import "time"

const (
	ENRICHMENT_API_HOST = "https://api.peopledatalabs.com"

	DEFAULT_ENRICHMENT_RATE_LIMIT = 10
)

type EnrichmentService struct {
	host string
	// TODO: only the SaaS api key header is supported, self-hosted mirrors may need Bearer auth.
	apiKey         string
	rateLimit      float64
	requestTimeout time.Duration
}

func InitializeEnrichmentService(config EnrichmentConfiguration) EnrichmentService {
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DEFAULT_ENRICHMENT_RATE_LIMIT
	}

	return EnrichmentService{
		host:           config.Host,
		apiKey:         config.ApiKey,
		rateLimit:      rateLimit,
		requestTimeout: config.RequestTimeout,
	}
}

func (es EnrichmentService) IsConfigured() bool {
	return len(es.apiKey) > 0
}

func (es EnrichmentService) Host() string {
	if len(es.host) > 0 {
		return es.host
	}

	return ENRICHMENT_API_HOST
}

func (es EnrichmentService) ApiKey() string {
	return es.apiKey
}

// RateLimit is the number of requests per second allowed towards the service.
func (es EnrichmentService) RateLimit() float64 {
	return es.rateLimit
}

func (es EnrichmentService) RequestTimeout() time.Duration {
	return es.requestTimeout
}
