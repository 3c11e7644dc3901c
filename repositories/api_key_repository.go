package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/dbmodels"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

func (repo *EnrichmentDbRepository) GetApiKeyByHash(ctx context.Context, exec Executor, hash []byte) (models.ApiKey, error) {
	query := NewQueryBuilder().
		Select(dbmodels.ApiKeyFields...).
		From(dbmodels.TABLE_APIKEYS).
		Where(squirrel.Eq{"key_hash": hash}).
		Where(squirrel.Eq{"deleted_at": nil})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptApikey)
}

func (repo *EnrichmentDbRepository) CreateApiKey(
	ctx context.Context,
	exec Executor,
	organizationId, description string,
	hash []byte,
) (models.ApiKey, error) {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_APIKEYS).
		Columns("id", "org_id", "key_hash", "description").
		Values(uuid.NewString(), organizationId, hash, description).
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(dbmodels.ApiKeyFields, ",")))

	apiKey, err := SqlToModel(ctx, exec, query, dbmodels.AdaptApikey)
	if IsUniqueViolationError(err) {
		return models.ApiKey{}, errors.Wrap(models.ConflictError, "api key already exists")
	}
	return apiKey, err
}
