package usecases

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/checkmarble/marble-enrichment/mocks"
	"github.com/checkmarble/marble-enrichment/models"
)

func TestCredentialsFromApiKey(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewApiKeyUsecase(mocks.ExecutorGetter{}, repo)

	hash := sha256.Sum256([]byte("raw-key"))
	repo.On("GetApiKeyByHash", mock.Anything, mock.Anything, hash[:]).Return(models.ApiKey{
		Id:             "key-1",
		Description:    "crm",
		OrganizationId: "org-a",
	}, nil)

	creds, err := usecase.CredentialsFromApiKey(context.Background(), "raw-key")

	require.NoError(t, err)
	assert.Equal(t, models.Credentials{
		ActorIdentity:  models.Identity{ApiKeyId: "key-1", ApiKeyName: "crm"},
		OrganizationId: "org-a",
		Key:            "raw-key",
	}, creds)
}

func TestCredentialsFromApiKey_Unknown(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewApiKeyUsecase(mocks.ExecutorGetter{}, repo)

	repo.On("GetApiKeyByHash", mock.Anything, mock.Anything, mock.Anything).
		Return(models.ApiKey{}, models.NotFoundError)

	_, err := usecase.CredentialsFromApiKey(context.Background(), "nope")
	assert.ErrorIs(t, err, models.UnAuthorizedError)

	_, err = usecase.CredentialsFromApiKey(context.Background(), "")
	assert.ErrorIs(t, err, models.UnAuthorizedError)
	repo.AssertNumberOfCalls(t, "GetApiKeyByHash", 1)
}

func TestCreateApiKey_StoresTheHash(t *testing.T) {
	repo := new(mocks.EnrichmentDbRepository)
	usecase := NewApiKeyUsecase(mocks.ExecutorGetter{}, repo)

	var storedHash []byte
	repo.On("CreateApiKey", mock.Anything, mock.Anything, "org-a", "crm", mock.Anything).
		Run(func(args mock.Arguments) { storedHash = args.Get(4).([]byte) }).
		Return(models.ApiKey{Id: "key-1", OrganizationId: "org-a", Description: "crm"}, nil)

	apiKey, rawKey, err := usecase.CreateApiKey(context.Background(), "org-a", "crm")

	require.NoError(t, err)
	assert.Equal(t, "key-1", apiKey.Id)
	assert.Len(t, rawKey, 64)
	expected := sha256.Sum256([]byte(rawKey))
	assert.Equal(t, expected[:], storedHash)

	_, _, err = usecase.CreateApiKey(context.Background(), " ", "crm")
	assert.ErrorIs(t, err, models.BadParameterError)
}
