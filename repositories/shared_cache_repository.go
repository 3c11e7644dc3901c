package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/dbmodels"
	"github.com/google/uuid"
)

// sharedCacheKeyColumns maps a lookup key to the identity columns it is filtered on.
func sharedCacheKeyColumns(key models.LookupKey) squirrel.Eq {
	switch key.EntityType {
	case models.EntityTypePerson:
		return squirrel.Eq{
			"first_name":   key.Person.FirstName,
			"last_name":    key.Person.LastName,
			"company_name": key.Person.Company,
		}
	default:
		return squirrel.Eq{
			"first_name":   "",
			"last_name":    "",
			"company_name": key.Company.Name,
		}
	}
}

// ListSharedCacheEntries returns the entries of the tenant matching the key, most
// recently written first.
func (repo *EnrichmentDbRepository) ListSharedCacheEntries(
	ctx context.Context,
	exec Executor,
	key models.LookupKey,
) ([]models.SharedCacheEntry, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectEnrichmentCacheEntryColumn...).
		From(dbmodels.TABLE_ENRICHMENT_CACHE_ENTRIES).
		Where(squirrel.Eq{
			"org_id":      key.OrganizationId,
			"entity_type": string(key.EntityType),
		}).
		Where(sharedCacheKeyColumns(key)).
		OrderBy("updated_at DESC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptEnrichmentCacheEntry)
}

// UpsertSharedCacheEntry writes the entry for the key, replacing a previous one:
// there is at most one entry per tenant and key. The conflict target is the identity
// columns reads filter on, not the joined identifier, which distinct keys can share.
func (repo *EnrichmentDbRepository) UpsertSharedCacheEntry(
	ctx context.Context,
	exec Executor,
	input models.SharedCacheEntryInput,
) (models.SharedCacheEntry, error) {
	now := time.Now()
	columns := sharedCacheKeyColumns(input.Key)

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_ENRICHMENT_CACHE_ENTRIES).
		Columns(
			"id",
			"org_id",
			"entity_type",
			"identifier",
			"first_name",
			"last_name",
			"company_name",
			"payload",
			"likelihood",
			"created_at",
			"updated_at",
		).
		Values(
			uuid.NewString(),
			input.Key.OrganizationId,
			string(input.Key.EntityType),
			input.Key.Identifier(),
			columns["first_name"],
			columns["last_name"],
			columns["company_name"],
			[]byte(input.Payload),
			input.Likelihood,
			now,
			now,
		).
		Suffix("ON CONFLICT (org_id, entity_type, first_name, last_name, company_name) DO UPDATE SET").
		Suffix("identifier = EXCLUDED.identifier,").
		Suffix("payload = EXCLUDED.payload,").
		Suffix("likelihood = EXCLUDED.likelihood,").
		Suffix("updated_at = EXCLUDED.updated_at").
		Suffix(fmt.Sprintf("RETURNING %s", strings.Join(dbmodels.SelectEnrichmentCacheEntryColumn, ",")))

	return SqlToModel(ctx, exec, query, dbmodels.AdaptEnrichmentCacheEntry)
}

func (repo *EnrichmentDbRepository) DeleteSharedCacheEntries(
	ctx context.Context,
	exec Executor,
	key models.LookupKey,
) (int64, error) {
	query := NewQueryBuilder().
		Delete(dbmodels.TABLE_ENRICHMENT_CACHE_ENTRIES).
		Where(squirrel.Eq{
			"org_id":      key.OrganizationId,
			"entity_type": string(key.EntityType),
		}).
		Where(sharedCacheKeyColumns(key))

	return ExecBuilder(ctx, exec, query)
}
