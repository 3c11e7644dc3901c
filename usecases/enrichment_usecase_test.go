package usecases

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/checkmarble/marble-enrichment/mocks"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/clock"
	"github.com/checkmarble/marble-enrichment/repositories/localstore"
	"github.com/checkmarble/marble-enrichment/usecases/localcache"
	"github.com/checkmarble/marble-enrichment/usecases/sharedcache"
	"github.com/checkmarble/marble-enrichment/usecases/textextract"
	"github.com/checkmarble/marble-enrichment/utils"
)

type EnrichmentUsecaseTestSuite struct {
	suite.Suite
	enrichmentClient  *mocks.EnrichmentClient
	sharedCacheClient *mocks.SharedCacheClient
	store             *localstore.MemoryStore
	clock             *clock.Mock

	organizationId string
	tenantKey      string
	ctx            context.Context
	hint           models.PersonIdentityHint
	personKey      models.LookupKey
	profile        models.PersonProfile
}

func (suite *EnrichmentUsecaseTestSuite) SetupTest() {
	suite.enrichmentClient = new(mocks.EnrichmentClient)
	suite.sharedCacheClient = new(mocks.SharedCacheClient)
	suite.store = localstore.NewMemoryStore(0)
	suite.clock = clock.NewMock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))

	suite.organizationId = "1f3e56b2-53b4-4a62-a8c0-4e9ef0c1d2a7"
	suite.tenantKey = "tenant-secret"
	suite.ctx = utils.StoreCredentialsInContext(context.Background(), models.Credentials{
		OrganizationId: suite.organizationId,
		Key:            suite.tenantKey,
	})
	suite.hint = models.PersonIdentityHint{FirstName: "Jane", LastName: "Doe", Company: "Acme"}

	var err error
	suite.personKey, err = models.NewPersonLookupKey(suite.organizationId, suite.hint)
	suite.Require().NoError(err)

	suite.profile = models.PersonProfile{
		Id:             "pdl-123",
		FullName:       "jane doe",
		FirstName:      "jane",
		LastName:       "doe",
		JobCompanyName: "acme",
	}
}

func (suite *EnrichmentUsecaseTestSuite) makeUsecase() *EnrichmentUsecase {
	return NewEnrichmentUsecase(
		suite.enrichmentClient,
		localcache.NewWithStore(suite.store, suite.clock),
		sharedcache.New(suite.sharedCacheClient),
		textextract.NewRegexExtractor(),
	)
}

func (suite *EnrichmentUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.enrichmentClient.AssertExpectations(t)
	suite.sharedCacheClient.AssertExpectations(t)
}

func (suite *EnrichmentUsecaseTestSuite) localKeys() []string {
	keys, err := suite.store.Keys(context.Background(), localcache.KeyNamespace)
	suite.Require().NoError(err)
	return keys
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_RemoteMatchIsCachedInBothTiers() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil).Once()
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, 8), nil).Once()
	suite.sharedCacheClient.On("SavePerson", mock.Anything, suite.personKey, suite.profile, 8, suite.tenantKey).
		Return(nil).Once()

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.Require().NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(suite.profile, resolution.Profile)
	suite.Equal(8, resolution.Likelihood)
	suite.Equal(models.ResolutionSourceRemote, resolution.Source)
	suite.Len(suite.localKeys(), 1)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_SecondLookupIsServedLocally() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil).Once()
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, 8), nil).Once()
	suite.sharedCacheClient.On("SavePerson", mock.Anything, suite.personKey, suite.profile, 8, suite.tenantKey).
		Return(nil).Once()

	usecase := suite.makeUsecase()
	_, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	suite.Require().NoError(err)

	suite.clock.Advance(24 * time.Hour)
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.Require().NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(models.ResolutionSourceLocal, resolution.Source)
	suite.Equal(suite.profile, resolution.Profile)
	suite.enrichmentClient.AssertNumberOfCalls(suite.T(), "EnrichPerson", 1)
	suite.sharedCacheClient.AssertNumberOfCalls(suite.T(), "LookupPerson", 1)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_SharedHitIsWrittenLocally() {
	payload, err := json.Marshal(suite.profile)
	suite.Require().NoError(err)
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).
		Return(&models.SharedCacheEntry{Id: "entry-1", Payload: payload, Likelihood: 9}, nil).Once()

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)

	suite.Require().NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(models.ResolutionSourceShared, resolution.Source)
	suite.Equal(9, resolution.Likelihood)
	suite.Equal(suite.profile, resolution.Profile)
	suite.Len(suite.localKeys(), 1)
	suite.enrichmentClient.AssertNotCalled(suite.T(), "EnrichPerson", mock.Anything, mock.Anything)

	resolution, err = usecase.ResolvePerson(suite.ctx, suite.hint)
	suite.Require().NoError(err)
	suite.Equal(models.ResolutionSourceLocal, resolution.Source)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_LowConfidenceIsDiscarded() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, models.MinimumLikelihood-1), nil)

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.NoError(err)
	suite.Nil(resolution)
	suite.Empty(suite.localKeys())
	suite.sharedCacheClient.AssertNotCalled(suite.T(), "SavePerson",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_MinimumLikelihoodIsAccepted() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, models.MinimumLikelihood), nil)
	suite.sharedCacheClient.On("SavePerson", mock.Anything, suite.personKey, suite.profile,
		models.MinimumLikelihood, suite.tenantKey).Return(nil)

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(models.MinimumLikelihood, resolution.Likelihood)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_NoMatch() {
	tests := []struct {
		name   string
		result models.EnrichmentResult[models.PersonProfile]
	}{
		{name: "no match", result: models.NoMatchResult[models.PersonProfile]()},
		{name: "not found", result: models.FailedResult[models.PersonProfile](
			&models.RemoteApiError{StatusCode: http.StatusNotFound, Message: "No records were found"})},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
			suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).Return(tt.result, nil)

			resolution, err := suite.makeUsecase().ResolvePerson(suite.ctx, suite.hint)

			suite.NoError(err)
			suite.Nil(resolution)
			suite.Empty(suite.localKeys())
			suite.AssertExpectations()
		})
	}
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_RemoteFailure() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.FailedResult[models.PersonProfile](&models.RemoteApiError{
			StatusCode: http.StatusInternalServerError,
			Message:    "internal error",
		}), nil)

	resolution, err := suite.makeUsecase().ResolvePerson(suite.ctx, suite.hint)

	suite.Nil(resolution)
	var apiErr *models.RemoteApiError
	suite.Require().True(errors.As(err, &apiErr))
	suite.Equal(http.StatusInternalServerError, apiErr.StatusCode)
	suite.True(apiErr.IsServiceFailure())
	suite.Empty(suite.localKeys())
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_ConfigurationError() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.EnrichmentResult[models.PersonProfile]{}, models.ConfigurationError)

	resolution, err := suite.makeUsecase().ResolvePerson(suite.ctx, suite.hint)

	suite.Nil(resolution)
	suite.ErrorIs(err, models.ConfigurationError)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_SharedTierFailureFallsThrough() {
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).
		Return(nil, errors.Wrap(models.StorageError, "connection refused"))
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, 7), nil)
	suite.sharedCacheClient.On("SavePerson", mock.Anything, suite.personKey, suite.profile, 7, suite.tenantKey).
		Return(errors.Wrap(models.StorageError, "connection refused"))

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(models.ResolutionSourceRemote, resolution.Source)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_TenantsDoNotShareLocalEntries() {
	otherOrgCtx := utils.StoreCredentialsInContext(context.Background(), models.Credentials{
		OrganizationId: "other-org",
		Key:            "other-secret",
	})
	otherKey, err := models.NewPersonLookupKey("other-org", suite.hint)
	suite.Require().NoError(err)

	suite.sharedCacheClient.On("LookupPerson", mock.Anything, suite.personKey, suite.tenantKey).Return(nil, nil)
	suite.sharedCacheClient.On("LookupPerson", mock.Anything, otherKey, "other-secret").Return(nil, nil)
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, 8), nil).Twice()
	suite.sharedCacheClient.On("SavePerson", mock.Anything, mock.Anything, suite.profile, 8, mock.Anything).Return(nil)

	usecase := suite.makeUsecase()
	first, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	suite.Require().NoError(err)
	second, err := usecase.ResolvePerson(otherOrgCtx, suite.hint)
	suite.Require().NoError(err)
	usecase.WaitForPendingWrites()

	suite.Equal(models.ResolutionSourceRemote, first.Source)
	suite.Equal(models.ResolutionSourceRemote, second.Source)
	suite.Len(suite.localKeys(), 2)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_RequiresAnOrganization() {
	resolution, err := suite.makeUsecase().ResolvePerson(context.Background(), suite.hint)

	suite.Nil(resolution)
	suite.ErrorIs(err, models.ForbiddenError)
	suite.enrichmentClient.AssertNotCalled(suite.T(), "EnrichPerson", mock.Anything, mock.Anything)
}

func (suite *EnrichmentUsecaseTestSuite) TestResolveCompany_MissingCredentialsIsForbidden() {
	resolution, err := suite.makeUsecase().ResolveCompany(context.Background(), models.CompanyIdentityHint{})

	suite.Nil(resolution)
	suite.ErrorIs(err, models.ForbiddenError)
	suite.NotErrorIs(err, models.BadParameterError)
	suite.enrichmentClient.AssertNotCalled(suite.T(), "EnrichCompany", mock.Anything, mock.Anything)
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_RequiresBothNames() {
	resolution, err := suite.makeUsecase().ResolvePerson(suite.ctx, models.PersonIdentityHint{FirstName: "Jane"})

	suite.Nil(resolution)
	suite.ErrorIs(err, models.BadParameterError)
}

func (suite *EnrichmentUsecaseTestSuite) TestResolveCompany() {
	hint := models.CompanyIdentityHint{Name: " Acme Corp "}
	key, err := models.NewCompanyLookupKey(suite.organizationId, hint)
	suite.Require().NoError(err)
	company := models.CompanyProfile{Id: "c-1", Name: "acme corp", Website: "acme.com"}

	suite.sharedCacheClient.On("LookupCompany", mock.Anything, key, suite.tenantKey).Return(nil, nil)
	suite.enrichmentClient.On("EnrichCompany", mock.Anything, models.EnrichCompanyParams{Name: "Acme Corp"}).
		Return(models.MatchedResult(company, 10), nil).Once()
	suite.sharedCacheClient.On("SaveCompany", mock.Anything, key, company, 10, suite.tenantKey).Return(nil).Once()

	usecase := suite.makeUsecase()
	resolution, err := usecase.ResolveCompany(suite.ctx, hint)
	usecase.WaitForPendingWrites()

	suite.Require().NoError(err)
	suite.Require().NotNil(resolution)
	suite.Equal(company, resolution.Profile)

	resolution, err = usecase.ResolveCompany(suite.ctx, models.CompanyIdentityHint{Name: "ACME CORP"})
	suite.Require().NoError(err)
	suite.Equal(models.ResolutionSourceLocal, resolution.Source)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestResolvePerson_WithoutSharedTier() {
	suite.enrichmentClient.On("EnrichPerson", mock.Anything, suite.hint.EnrichParams()).
		Return(models.MatchedResult(suite.profile, 8), nil).Once()

	usecase := NewEnrichmentUsecase(
		suite.enrichmentClient,
		localcache.NewWithStore(suite.store, suite.clock),
		nil,
		textextract.NewRegexExtractor(),
	)
	resolution, err := usecase.ResolvePerson(suite.ctx, suite.hint)
	usecase.WaitForPendingWrites()

	suite.Require().NoError(err)
	suite.Equal(models.ResolutionSourceRemote, resolution.Source)
	suite.Len(suite.localKeys(), 1)
	suite.AssertExpectations()
}

func (suite *EnrichmentUsecaseTestSuite) TestClearLocalCache_OnlyClearsTheCallerOrganization() {
	usecase := suite.makeUsecase()
	local := localcache.NewWithStore(suite.store, suite.clock)

	otherKey, err := models.NewPersonLookupKey("other-organization", suite.hint)
	suite.Require().NoError(err)
	local.SetPerson(suite.ctx, suite.personKey, suite.profile, 8)
	local.SetPerson(suite.ctx, otherKey, suite.profile, 8)
	suite.Len(suite.localKeys(), 2)

	suite.NoError(usecase.ClearLocalCache(suite.ctx))

	suite.Equal([]string{localcache.StorageKey(otherKey)}, suite.localKeys())
	_, ok := local.GetPerson(suite.ctx, otherKey)
	suite.True(ok)

	suite.ErrorIs(usecase.ClearLocalCache(context.Background()), models.ForbiddenError)
	suite.Len(suite.localKeys(), 1)
}

func (suite *EnrichmentUsecaseTestSuite) TestExtractEntities() {
	entities := suite.makeUsecase().ExtractEntities("Hi, this is Jane Doe from Acme Corp")

	suite.Contains(entities.PersonNames, "Jane Doe")
	suite.Require().NotNil(entities.CompanyName)
	suite.Equal("Acme Corp", *entities.CompanyName)
}

func TestEnrichmentUsecase(t *testing.T) {
	suite.Run(t, new(EnrichmentUsecaseTestSuite))
}

func TestResolvePerson_ContextCancellationDoesNotAbortSharedWrite(t *testing.T) {
	enrichmentClient := new(mocks.EnrichmentClient)
	sharedCacheClient := new(mocks.SharedCacheClient)
	hint := models.PersonIdentityHint{FirstName: "Jane", LastName: "Doe"}
	profile := models.PersonProfile{Id: "p1"}

	ctx, cancel := context.WithCancel(utils.StoreCredentialsInContext(context.Background(),
		models.Credentials{OrganizationId: "org-1", Key: "secret"}))

	sharedCacheClient.On("LookupPerson", mock.Anything, mock.Anything, "secret").Return(nil, nil)
	enrichmentClient.On("EnrichPerson", mock.Anything, hint.EnrichParams()).Return(models.MatchedResult(profile, 9), nil)
	sharedCacheClient.On("SavePerson", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything, profile, 9, "secret").Return(nil).Once()

	usecase := NewEnrichmentUsecase(
		enrichmentClient,
		localcache.NewWithStore(localstore.NewMemoryStore(0), nil),
		sharedcache.New(sharedCacheClient),
		textextract.NewRegexExtractor(),
	)

	_, err := usecase.ResolvePerson(ctx, hint)
	cancel()
	usecase.WaitForPendingWrites()

	assert.NoError(t, err)
	sharedCacheClient.AssertExpectations(t)
}
