package dto

import (
	"encoding/json"
	"time"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/pure_utils"
)

// The json shapes below are read by the enrichment server http client
// (repositories/httpmodels), keep both in sync.

type SharedCacheEntryDto struct {
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

func AdaptSharedCacheEntryDto(entry models.SharedCacheEntry) SharedCacheEntryDto {
	return SharedCacheEntryDto{
		Id:          entry.Id,
		EntityType:  string(entry.EntityType),
		Identifier:  entry.Identifier,
		FirstName:   entry.FirstName,
		LastName:    entry.LastName,
		CompanyName: entry.CompanyName,
		Payload:     entry.Payload,
		Likelihood:  entry.Likelihood,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

type SharedCacheListDto struct {
	Data []SharedCacheEntryDto `json:"data"`
}

func AdaptSharedCacheListDto(entries []models.SharedCacheEntry) SharedCacheListDto {
	return SharedCacheListDto{
		Data: pure_utils.Map(entries, AdaptSharedCacheEntryDto),
	}
}

type PersonCacheQuery struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Company   string `form:"company"`
}

func (q PersonCacheQuery) Hint() models.PersonIdentityHint {
	return models.PersonIdentityHint{
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Company:   q.Company,
	}
}

type CompanyCacheQuery struct {
	Name string `form:"name" binding:"required"`
}

func (q CompanyCacheQuery) Hint() models.CompanyIdentityHint {
	return models.CompanyIdentityHint{Name: q.Name}
}

type CreatePersonCacheEntryInput struct {
	FirstName  string          `json:"first_name" binding:"required"`
	LastName   string          `json:"last_name" binding:"required"`
	Company    string          `json:"company"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
	Likelihood int             `json:"likelihood" binding:"required,min=6,max=10"`
}

func (input CreatePersonCacheEntryInput) Hint() models.PersonIdentityHint {
	return models.PersonIdentityHint{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Company:   input.Company,
	}
}

type CreateCompanyCacheEntryInput struct {
	Name       string          `json:"name" binding:"required"`
	Payload    json.RawMessage `json:"payload" binding:"required"`
	Likelihood int             `json:"likelihood" binding:"required,min=6,max=10"`
}

func (input CreateCompanyCacheEntryInput) Hint() models.CompanyIdentityHint {
	return models.CompanyIdentityHint{Name: input.Name}
}

type InvalidatedEntriesDto struct {
	Deleted int64 `json:"deleted"`
}
