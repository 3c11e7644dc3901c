package models

import "time"

// CacheEntry wraps a resolved profile with the facts of the fetch that produced it.
// Entries are never updated in place: a new resolution overwrites the entry.
type CacheEntry[T any] struct {
	Payload        T         `json:"payload"`
	Timestamp      time.Time `json:"timestamp"`
	OrganizationId string    `json:"tenant_id"`
	SchemaVersion  string    `json:"schema_version"`
	Likelihood     int       `json:"likelihood"`
}

type ResolutionSource string

const (
	ResolutionSourceLocal  ResolutionSource = "local"
	ResolutionSourceShared ResolutionSource = "shared"
	ResolutionSourceRemote ResolutionSource = "remote"
)

type Resolution[T any] struct {
	Profile    T
	Likelihood int
	Source     ResolutionSource
}

type ExtractedEntities struct {
	PersonNames []string
	CompanyName *string
}
