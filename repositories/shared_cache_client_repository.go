package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/checkmarble/marble-enrichment/infra"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/httpmodels"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	SHARED_CACHE_PERSONS_PATH     = "/cache/persons"
	SHARED_CACHE_COMPANIES_PATH   = "/cache/companies"
	SHARED_CACHE_CREDENTIALS_PATH = "/cache/credentials"
)

// SharedCacheClientRepository talks to the shared cache backend on behalf of a tenant.
// Every call carries the tenant credential, the backend derives the organization from it.
type SharedCacheClientRepository struct {
	config infra.SharedCacheConfiguration
	client *http.Client
}

func NewSharedCacheClientRepository(config infra.SharedCacheConfiguration, client *http.Client) SharedCacheClientRepository {
	if client == nil {
		client = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   config.RequestTimeout,
		}
	}

	return SharedCacheClientRepository{
		config: config,
		client: client,
	}
}

func (repo SharedCacheClientRepository) IsConfigured() bool {
	return repo.config.Url != ""
}

func (repo SharedCacheClientRepository) LookupPerson(ctx context.Context, key models.LookupKey, credential string) (
	*models.SharedCacheEntry, error,
) {
	return repo.lookup(ctx, SHARED_CACHE_PERSONS_PATH, key, credential)
}

func (repo SharedCacheClientRepository) LookupCompany(ctx context.Context, key models.LookupKey, credential string) (
	*models.SharedCacheEntry, error,
) {
	return repo.lookup(ctx, SHARED_CACHE_COMPANIES_PATH, key, credential)
}

func (repo SharedCacheClientRepository) SavePerson(
	ctx context.Context,
	key models.LookupKey,
	profile models.PersonProfile,
	likelihood int,
	credential string,
) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "could not serialize person profile")
	}

	body := httpmodels.HTTPSharedCachePersonInput{
		FirstName:  key.Person.FirstName,
		LastName:   key.Person.LastName,
		Company:    key.Person.Company,
		Payload:    payload,
		Likelihood: likelihood,
	}

	return repo.save(ctx, SHARED_CACHE_PERSONS_PATH, body, credential)
}

func (repo SharedCacheClientRepository) SaveCompany(
	ctx context.Context,
	key models.LookupKey,
	profile models.CompanyProfile,
	likelihood int,
	credential string,
) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "could not serialize company profile")
	}

	body := httpmodels.HTTPSharedCacheCompanyInput{
		Name:       key.Company.Name,
		Payload:    payload,
		Likelihood: likelihood,
	}

	return repo.save(ctx, SHARED_CACHE_COMPANIES_PATH, body, credential)
}

// Invalidate removes the entries matching the key from the shared tier.
func (repo SharedCacheClientRepository) Invalidate(ctx context.Context, key models.LookupKey, credential string) error {
	path := SHARED_CACHE_PERSONS_PATH
	if key.EntityType == models.EntityTypeCompany {
		path = SHARED_CACHE_COMPANIES_PATH
	}

	resp, err := repo.do(ctx, http.MethodDelete, path, sharedCacheQuery(key), nil, credential)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkSharedCacheStatus(resp)
}

// Credentials resolves a tenant credential into the organization it is bound to.
func (repo SharedCacheClientRepository) Credentials(ctx context.Context, credential string) (models.Credentials, error) {
	resp, err := repo.do(ctx, http.MethodGet, SHARED_CACHE_CREDENTIALS_PATH, nil, nil, credential)
	if err != nil {
		return models.Credentials{}, err
	}
	defer resp.Body.Close()

	if err := checkSharedCacheStatus(resp); err != nil {
		return models.Credentials{}, err
	}

	var creds httpmodels.HTTPSharedCacheCredentials

	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return models.Credentials{}, errors.Wrap(models.StorageError, err.Error())
	}

	return httpmodels.AdaptSharedCacheCredentials(creds, credential), nil
}

func (repo SharedCacheClientRepository) lookup(ctx context.Context, path string, key models.LookupKey, credential string) (
	*models.SharedCacheEntry, error,
) {
	resp, err := repo.do(ctx, http.MethodGet, path, sharedCacheQuery(key), nil, credential)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkSharedCacheStatus(resp); err != nil {
		return nil, err
	}

	var list httpmodels.HTTPSharedCacheList

	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.Wrap(models.StorageError, fmt.Sprintf("could not decode shared cache response: %s", err))
	}

	if len(list.Data) == 0 {
		return nil, nil
	}

	entry := httpmodels.AdaptSharedCacheEntry(key.OrganizationId, list.Data[0])

	return &entry, nil
}

func (repo SharedCacheClientRepository) save(ctx context.Context, path string, body any, credential string) error {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return errors.Wrap(err, "could not serialize shared cache entry")
	}

	resp, err := repo.do(ctx, http.MethodPost, path, nil, &buf, credential)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkSharedCacheStatus(resp)
}

func (repo SharedCacheClientRepository) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	credential string,
) (*http.Response, error) {
	if !repo.IsConfigured() {
		return nil, errors.Wrap(models.StorageError, "shared cache url is not configured")
	}

	u := fmt.Sprintf("%s%s", repo.config.Url, path)
	if len(query) > 0 {
		u = fmt.Sprintf("%s?%s", u, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build shared cache request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", credential)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := repo.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(models.StorageError, fmt.Sprintf("could not reach shared cache: %s", err))
	}

	return resp, nil
}

func sharedCacheQuery(key models.LookupKey) url.Values {
	query := url.Values{}

	switch key.EntityType {
	case models.EntityTypePerson:
		query.Set("first_name", key.Person.FirstName)
		query.Set("last_name", key.Person.LastName)
		if key.Person.Company != "" {
			query.Set("company", key.Person.Company)
		}
	case models.EntityTypeCompany:
		query.Set("name", key.Company.Name)
	}

	return query
}

func checkSharedCacheStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.Wrap(models.UnAuthorizedError, "shared cache rejected the tenant credential")
	default:
		return errors.Wrapf(models.StorageError, "shared cache returned status %d", resp.StatusCode)
	}
}
