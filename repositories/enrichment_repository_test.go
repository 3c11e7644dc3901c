package repositories

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/models"
)

const testEnrichmentHost = "https://enrichment.test"

func newTestEnrichmentRepository(apiKey string) *EnrichmentRepository {
	service := infra.InitializeEnrichmentService(infra.EnrichmentConfiguration{
		Host:   testEnrichmentHost,
		ApiKey: apiKey,
	})

	return NewEnrichmentRepository(service,
		WithEnrichmentHTTPClient(&http.Client{}),
		WithEnrichmentRateLimiter(rate.NewLimiter(rate.Inf, 1)),
		WithEnrichmentRetry(2, time.Millisecond))
}

func TestEnrichPerson_Matched(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		MatchHeader("X-Api-Key", "^secret$").
		MatchParam("first_name", "Jane").
		MatchParam("last_name", "Doe").
		MatchParam("company", "Acme").
		MatchParam("min_likelihood", "6").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"status":     200,
			"likelihood": 8,
			"data": map[string]any{
				"id":               "pdl-1",
				"full_name":        "jane doe",
				"first_name":       "jane",
				"last_name":        "doe",
				"emails":           []map[string]any{{"address": "jane@acme.com", "type": "professional"}},
				"job_title":        "cfo",
				"job_company_name": "acme",
				"experience": []map[string]any{{
					"company":    map[string]any{"name": "acme"},
					"title":      map[string]any{"name": "cfo"},
					"start_date": "2020-01",
					"is_primary": true,
				}},
				"skills": []string{"finance"},
			},
		})

	repo := newTestEnrichmentRepository("secret")
	result, err := repo.EnrichPerson(context.Background(), models.EnrichPersonParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Company:   "Acme",
	})

	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentMatched, result.Outcome)
	assert.Equal(t, 8, result.Likelihood)
	assert.Equal(t, "pdl-1", result.Profile.Id)
	assert.Equal(t, []string{"jane@acme.com"}, result.Profile.Emails)
	require.Len(t, result.Profile.Experience, 1)
	assert.Equal(t, "acme", result.Profile.Experience[0].CompanyName)
	assert.True(t, result.Profile.Experience[0].IsPrimary)
	assert.True(t, result.IsConfident())
	assert.True(t, gock.IsDone())
}

func TestEnrichPerson_NullDataIsNoMatch(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		MatchParam("email", "nobody@example.com").
		Reply(http.StatusOK).
		JSON(map[string]any{"status": 200, "likelihood": 0, "data": nil})

	result, err := newTestEnrichmentRepository("secret").
		EnrichPerson(context.Background(), models.EnrichPersonParams{Email: "nobody@example.com"})

	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentNoMatch, result.Outcome)
	assert.Nil(t, result.Failure)
}

func TestEnrichPerson_NotFoundIsFailedWithPayload(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusNotFound).
		JSON(map[string]any{
			"status": 404,
			"error":  map[string]any{"type": "not_found", "message": "No records were found matching your request"},
		})

	result, err := newTestEnrichmentRepository("secret").
		EnrichPerson(context.Background(), models.EnrichPersonParams{ExternalId: "jane-doe-123"})

	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentFailed, result.Outcome)
	require.NotNil(t, result.Failure)
	assert.Equal(t, http.StatusNotFound, result.Failure.StatusCode)
	assert.Equal(t, "not_found", result.Failure.Type)
	assert.Equal(t, "No records were found matching your request", result.Failure.Message)
	assert.True(t, result.Failure.IsNoMatch())
	assert.True(t, result.Failure.IsClientError())
}

func TestEnrichPerson_ServerErrorWithRawBody(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusBadGateway).
		BodyString("upstream unavailable")

	result, err := newTestEnrichmentRepository("secret").
		EnrichPerson(context.Background(), models.EnrichPersonParams{Profile: "linkedin.com/in/janedoe"})

	require.NoError(t, err)
	require.Equal(t, models.EnrichmentFailed, result.Outcome)
	assert.Equal(t, http.StatusBadGateway, result.Failure.StatusCode)
	assert.Equal(t, "upstream unavailable", result.Failure.Message)
	assert.True(t, result.Failure.IsServiceFailure())
}

func TestEnrichPerson_RateLimitedIsRetried(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusTooManyRequests).
		JSON(map[string]any{"status": 429, "error": map[string]any{"type": "rate_limit", "message": "slow down"}})
	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusOK).
		JSON(map[string]any{"status": 200, "likelihood": 7, "data": map[string]any{"id": "pdl-2"}})

	result, err := newTestEnrichmentRepository("secret").
		EnrichPerson(context.Background(), models.EnrichPersonParams{Email: "jane@acme.com"})

	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentMatched, result.Outcome)
	assert.Equal(t, "pdl-2", result.Profile.Id)
	assert.True(t, gock.IsDone())
}

func TestEnrichPerson_RateLimitedUntilGivingUp(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Times(2).
		Reply(http.StatusTooManyRequests).
		JSON(map[string]any{"status": 429, "error": map[string]any{"type": "rate_limit", "message": "slow down"}})

	result, err := newTestEnrichmentRepository("secret").
		EnrichPerson(context.Background(), models.EnrichPersonParams{Email: "jane@acme.com"})

	require.NoError(t, err)
	require.Equal(t, models.EnrichmentFailed, result.Outcome)
	assert.Equal(t, http.StatusTooManyRequests, result.Failure.StatusCode)
	assert.Equal(t, "slow down", result.Failure.Message)
	assert.True(t, gock.IsDone())
}

func TestEnrichPerson_MissingApiKey(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusOK)

	_, err := newTestEnrichmentRepository("").
		EnrichPerson(context.Background(), models.EnrichPersonParams{FirstName: "Jane", LastName: "Doe"})

	assert.ErrorIs(t, err, models.ConfigurationError)
	assert.False(t, gock.IsDone(), "no request should be sent")
}

func TestEnrichPerson_InvalidStrategies(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_PERSON_PATH).
		Reply(http.StatusOK)

	repo := newTestEnrichmentRepository("secret")

	tests := map[string]models.EnrichPersonParams{
		"nothing":          {},
		"two strategies":   {Email: "jane@acme.com", Profile: "linkedin.com/in/janedoe"},
		"half a name":      {FirstName: "Jane"},
		"orphan qualifier": {Company: "Acme"},
	}

	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := repo.EnrichPerson(context.Background(), params)
			assert.ErrorIs(t, err, models.BadParameterError)
		})
	}
	assert.False(t, gock.IsDone(), "no request should be sent")
}

func TestEnrichCompany_Matched(t *testing.T) {
	defer gock.Off()

	gock.New(testEnrichmentHost).
		Get(ENRICHMENT_COMPANY_PATH).
		MatchHeader("X-Api-Key", "^secret$").
		MatchParam("name", "Acme Corp").
		MatchParam("website", "acme.com").
		MatchParam("min_likelihood", "6").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"status":     200,
			"likelihood": 9,
			"data": map[string]any{
				"id":                            "c-1",
				"name":                          "acme corp",
				"website":                       "acme.com",
				"employee_count":                120,
				"founded":                       1999,
				"total_funding_raised":          1.5e6,
				"employee_growth_rate_12_month": 0.12,
				"location":                      map[string]any{"name": "paris, france"},
			},
		})

	result, err := newTestEnrichmentRepository("secret").
		EnrichCompany(context.Background(), models.EnrichCompanyParams{Name: "Acme Corp", Website: "acme.com"})

	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentMatched, result.Outcome)
	assert.Equal(t, 9, result.Likelihood)
	assert.Equal(t, models.CompanyProfile{
		Id:                 "c-1",
		Name:               "acme corp",
		Website:            "acme.com",
		EmployeeCount:      120,
		Founded:            1999,
		TotalFundingRaised: 1.5e6,
		EmployeeGrowthRate: 0.12,
		LocationName:       "paris, france",
	}, result.Profile)
}
