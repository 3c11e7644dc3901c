package models

import (
	"encoding/json"
	"time"
)

// SharedCacheEntry is a row of the per-tenant shared cache. The payload is stored
// opaque: only the enrichment server knows the profile shapes.
type SharedCacheEntry struct {
	Id             string
	OrganizationId string
	EntityType     EntityType
	Identifier     string
	FirstName      string
	LastName       string
	CompanyName    string
	Payload        json.RawMessage
	Likelihood     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SharedCacheEntryInput struct {
	Key        LookupKey
	Payload    json.RawMessage
	Likelihood int
}
