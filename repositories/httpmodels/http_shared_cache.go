package httpmodels

import (
	"encoding/json"
	"time"

	"github.com/checkmarble/marble-enrichment/models"
)

// Shapes exchanged with the shared cache backend. The backend renders them from its
// own dto package, both sides must be kept in sync.

type HTTPSharedCacheEntry struct {
	Id          string          `json:"id"`
	EntityType  string          `json:"entity_type"`
	Identifier  string          `json:"identifier"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	CompanyName string          `json:"company_name"`
	Payload     json.RawMessage `json:"payload"`
	Likelihood  int             `json:"likelihood"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type HTTPSharedCacheList struct {
	Data []HTTPSharedCacheEntry `json:"data"`
}

type HTTPSharedCachePersonInput struct {
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Company    string          `json:"company,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Likelihood int             `json:"likelihood"`
}

type HTTPSharedCacheCompanyInput struct {
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Likelihood int             `json:"likelihood"`
}

type HTTPSharedCacheCredentials struct {
	OrganizationId string `json:"organization_id"`
	ApiKeyId       string `json:"api_key_id"`
	Description    string `json:"description"`
}

func AdaptSharedCacheEntry(organizationId string, e HTTPSharedCacheEntry) models.SharedCacheEntry {
	return models.SharedCacheEntry{
		Id:             e.Id,
		OrganizationId: organizationId,
		EntityType:     models.EntityType(e.EntityType),
		Identifier:     e.Identifier,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		CompanyName:    e.CompanyName,
		Payload:        e.Payload,
		Likelihood:     e.Likelihood,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func AdaptSharedCacheCredentials(c HTTPSharedCacheCredentials, rawKey string) models.Credentials {
	return models.Credentials{
		ActorIdentity: models.Identity{
			ApiKeyId:   c.ApiKeyId,
			ApiKeyName: c.Description,
		},
		OrganizationId: c.OrganizationId,
		Key:            rawKey,
	}
}
