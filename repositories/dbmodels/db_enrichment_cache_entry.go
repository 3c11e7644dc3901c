package dbmodels

import (
	"time"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/utils"
)

type DBEnrichmentCacheEntry struct {
	Id          string    `db:"id"`
	OrgId       string    `db:"org_id"`
	EntityType  string    `db:"entity_type"`
	Identifier  string    `db:"identifier"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	CompanyName string    `db:"company_name"`
	Payload     []byte    `db:"payload"`
	Likelihood  int       `db:"likelihood"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const TABLE_ENRICHMENT_CACHE_ENTRIES = "enrichment_cache_entries"

var SelectEnrichmentCacheEntryColumn = utils.ColumnList[DBEnrichmentCacheEntry]()

func AdaptEnrichmentCacheEntry(db DBEnrichmentCacheEntry) (models.SharedCacheEntry, error) {
	return models.SharedCacheEntry{
		Id:             db.Id,
		OrganizationId: db.OrgId,
		EntityType:     models.EntityType(db.EntityType),
		Identifier:     db.Identifier,
		FirstName:      db.FirstName,
		LastName:       db.LastName,
		CompanyName:    db.CompanyName,
		Payload:        db.Payload,
		Likelihood:     db.Likelihood,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}
