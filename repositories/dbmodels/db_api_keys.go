package dbmodels

import (
	"time"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/utils"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBApiKey struct {
	Id          string             `db:"id"`
	OrgId       string             `db:"org_id"`
	KeyHash     []byte             `db:"key_hash"`
	Description string             `db:"description"`
	CreatedAt   time.Time          `db:"created_at"`
	DeletedAt   pgtype.Timestamptz `db:"deleted_at"`
}

const TABLE_APIKEYS = "api_keys"

var ApiKeyFields = utils.ColumnList[DBApiKey]()

func AdaptApikey(db DBApiKey) (models.ApiKey, error) {
	return models.ApiKey{
		Id:             db.Id,
		CreatedAt:      db.CreatedAt,
		Description:    db.Description,
		Hash:           db.KeyHash,
		OrganizationId: db.OrgId,
	}, nil
}
