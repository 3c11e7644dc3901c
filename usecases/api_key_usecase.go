package usecases

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories"
	"github.com/cockroachdb/errors"
)

type ApiKeyRepository interface {
	GetApiKeyByHash(ctx context.Context, exec repositories.Executor, hash []byte) (models.ApiKey, error)
	CreateApiKey(ctx context.Context, exec repositories.Executor, organizationId, description string,
		hash []byte) (models.ApiKey, error)
}

type ApiKeyUsecase struct {
	executorGetter   ExecutorGetter
	apiKeyRepository ApiKeyRepository
}

func NewApiKeyUsecase(executorGetter ExecutorGetter, apiKeyRepository ApiKeyRepository) ApiKeyUsecase {
	return ApiKeyUsecase{
		executorGetter:   executorGetter,
		apiKeyRepository: apiKeyRepository,
	}
}

// CredentialsFromApiKey resolves a raw tenant credential. Only the sha256 hash of
// keys is stored.
func (usecase ApiKeyUsecase) CredentialsFromApiKey(ctx context.Context, rawKey string) (models.Credentials, error) {
	if rawKey == "" {
		return models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "missing api key")
	}

	hash := sha256.Sum256([]byte(rawKey))
	apiKey, err := usecase.apiKeyRepository.GetApiKeyByHash(ctx, usecase.executorGetter.Executor(), hash[:])
	if errors.Is(err, models.NotFoundError) {
		return models.Credentials{}, models.ErrUnknownApiKey
	}
	if err != nil {
		return models.Credentials{}, err
	}

	return apiKey.IntoCredentials(rawKey), nil
}

// CreateApiKey returns the raw key alongside the stored key. The raw key cannot be
// retrieved afterwards.
func (usecase ApiKeyUsecase) CreateApiKey(ctx context.Context, organizationId, description string) (
	models.ApiKey, string, error,
) {
	if strings.TrimSpace(organizationId) == "" {
		return models.ApiKey{}, "", errors.Wrap(models.BadParameterError, "organization id is required")
	}

	rawKey := generateApiKey()
	hash := sha256.Sum256([]byte(rawKey))

	apiKey, err := usecase.apiKeyRepository.CreateApiKey(ctx, usecase.executorGetter.Executor(),
		organizationId, description, hash[:])
	if err != nil {
		return models.ApiKey{}, "", err
	}

	return apiKey, rawKey, nil
}

func generateApiKey() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Errorf("generateApiKey: %w", err))
	}
	return hex.EncodeToString(key)
}
