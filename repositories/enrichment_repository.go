package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/httpmodels"
	"github.com/checkmarble/marble-enrichment/utils"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	ENRICHMENT_PERSON_PATH  = "/v5/person/enrich"
	ENRICHMENT_COMPANY_PATH = "/v5/company/enrich"

	enrichmentMaxAttempts = 3
	enrichmentRetryDelay  = 500 * time.Millisecond
	maxErrorBodySize      = 64 * 1024
)

// errRateLimited is returned from a single attempt when the service answers 429. Those
// answers are not billed, so the call is retried.
var errRateLimited = errors.New("enrichment service rate limit reached")

type EnrichmentRepository struct {
	enrichment  infra.EnrichmentService
	client      *http.Client
	limiter     *rate.Limiter
	maxAttempts uint
	retryDelay  time.Duration
}

type EnrichmentRepositoryOpt func(*EnrichmentRepository)

func WithEnrichmentHTTPClient(client *http.Client) EnrichmentRepositoryOpt {
	return func(r *EnrichmentRepository) {
		r.client = client
	}
}

func WithEnrichmentRateLimiter(limiter *rate.Limiter) EnrichmentRepositoryOpt {
	return func(r *EnrichmentRepository) {
		r.limiter = limiter
	}
}

func WithEnrichmentRetry(attempts uint, delay time.Duration) EnrichmentRepositoryOpt {
	return func(r *EnrichmentRepository) {
		r.maxAttempts = attempts
		r.retryDelay = delay
	}
}

func NewEnrichmentRepository(enrichment infra.EnrichmentService, opts ...EnrichmentRepositoryOpt) *EnrichmentRepository {
	repo := &EnrichmentRepository{
		enrichment: enrichment,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   enrichment.RequestTimeout(),
		},
		limiter:     rate.NewLimiter(rate.Limit(enrichment.RateLimit()), 1),
		maxAttempts: enrichmentMaxAttempts,
		retryDelay:  enrichmentRetryDelay,
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

func (repo *EnrichmentRepository) IsConfigured() bool {
	return repo.enrichment.IsConfigured()
}

func (repo *EnrichmentRepository) EnrichPerson(ctx context.Context, params models.EnrichPersonParams) (
	models.EnrichmentResult[models.PersonProfile], error,
) {
	if !repo.enrichment.IsConfigured() {
		return models.EnrichmentResult[models.PersonProfile]{}, models.ConfigurationError
	}

	query, err := personEnrichmentQuery(params)
	if err != nil {
		return models.EnrichmentResult[models.PersonProfile]{}, err
	}

	return enrich(ctx, repo, models.EntityTypePerson, ENRICHMENT_PERSON_PATH, query, httpmodels.AdaptPerson)
}

func (repo *EnrichmentRepository) EnrichCompany(ctx context.Context, params models.EnrichCompanyParams) (
	models.EnrichmentResult[models.CompanyProfile], error,
) {
	if !repo.enrichment.IsConfigured() {
		return models.EnrichmentResult[models.CompanyProfile]{}, models.ConfigurationError
	}

	query, err := companyEnrichmentQuery(params)
	if err != nil {
		return models.EnrichmentResult[models.CompanyProfile]{}, err
	}

	return enrich(ctx, repo, models.EntityTypeCompany, ENRICHMENT_COMPANY_PATH, query, httpmodels.AdaptCompany)
}

func personEnrichmentQuery(params models.EnrichPersonParams) (url.Values, error) {
	strategy, err := params.Strategy()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	switch strategy {
	case models.StrategyProfile:
		query.Set("profile", params.Profile)
	case models.StrategyName:
		query.Set("first_name", params.FirstName)
		query.Set("last_name", params.LastName)
		setIfNotEmpty(query, "company", params.Company)
		setIfNotEmpty(query, "location", params.Location)
	case models.StrategyEmail:
		query.Set("email", params.Email)
	case models.StrategyExternalId:
		query.Set("lid", params.ExternalId)
	}
	query.Set("min_likelihood", strconv.Itoa(models.MinimumLikelihood))

	return query, nil
}

func companyEnrichmentQuery(params models.EnrichCompanyParams) (url.Values, error) {
	strategy, err := params.Strategy()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	switch strategy {
	case models.StrategyProfile:
		query.Set("profile", params.Profile)
	case models.StrategyName:
		query.Set("name", params.Name)
		setIfNotEmpty(query, "website", params.Website)
		setIfNotEmpty(query, "location", params.Location)
	case models.StrategyExternalId:
		query.Set("ticker", params.ExternalId)
	}
	query.Set("min_likelihood", strconv.Itoa(models.MinimumLikelihood))

	return query, nil
}

func setIfNotEmpty(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func enrich[H, T any](
	ctx context.Context,
	repo *EnrichmentRepository,
	entityType models.EntityType,
	path string,
	query url.Values,
	adapter func(H) T,
) (models.EnrichmentResult[T], error) {
	logger := utils.LoggerFromContext(ctx).With("entity_type", entityType)

	var result models.EnrichmentResult[T]

	err := retry.Do(
		func() error {
			if err := repo.limiter.Wait(ctx); err != nil {
				return errors.Wrap(err, "could not wait for the enrichment rate limiter")
			}

			var err error
			result, err = enrichOnce(ctx, repo, path, query, adapter)
			if err != nil {
				return err
			}
			if result.Outcome == models.EnrichmentFailed &&
				result.Failure.StatusCode == http.StatusTooManyRequests {
				logger.WarnContext(ctx, "enrichment service rate limit reached, retrying")
				return errRateLimited
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(repo.maxAttempts),
		retry.LastErrorOnly(true),
		retry.Delay(repo.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errRateLimited)
		}),
	)

	switch {
	case errors.Is(err, errRateLimited):
		// retries exhausted, the last answer is a Failed(429) result
	case err != nil:
		utils.MetricRemoteEnrichments.WithLabelValues(string(entityType), "error").Inc()
		return models.EnrichmentResult[T]{}, err
	}

	utils.MetricRemoteEnrichments.WithLabelValues(string(entityType), result.Outcome.String()).Inc()
	logger.DebugContext(ctx, "enrichment service answered",
		"outcome", result.Outcome.String(),
		"likelihood", result.Likelihood)

	return result, nil
}

func enrichOnce[H, T any](
	ctx context.Context,
	repo *EnrichmentRepository,
	path string,
	query url.Values,
	adapter func(H) T,
) (models.EnrichmentResult[T], error) {
	u := fmt.Sprintf("%s%s?%s", repo.enrichment.Host(), path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.EnrichmentResult[T]{}, errors.Wrap(err, "could not build enrichment request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", repo.enrichment.ApiKey())

	resp, err := repo.client.Do(req)
	if err != nil {
		return models.EnrichmentResult[T]{}, errors.Wrap(err, "could not perform enrichment request")
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.FailedResult[T](readRemoteApiError(resp)), nil
	}

	var body httpmodels.HTTPEnrichmentResponse[H]

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.EnrichmentResult[T]{}, errors.Wrap(err, "could not decode enrichment response")
	}

	if body.Data == nil {
		return models.NoMatchResult[T](), nil
	}

	return models.MatchedResult(adapter(*body.Data), body.Likelihood), nil
}

func readRemoteApiError(resp *http.Response) *models.RemoteApiError {
	apiErr := &models.RemoteApiError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return apiErr
	}

	var body httpmodels.HTTPEnrichmentError

	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Message == "" {
		apiErr.Message = string(raw)
		return apiErr
	}

	apiErr.Message = body.Error.Message
	apiErr.Type = body.Error.Type

	return apiErr
}
