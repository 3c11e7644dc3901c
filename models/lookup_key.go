package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

type EntityType string

const (
	EntityTypePerson  EntityType = "person"
	EntityTypeCompany EntityType = "company"
)

type PersonIdentityHint struct {
	FirstName string
	LastName  string
	Company   string
}

func (h PersonIdentityHint) EnrichParams() EnrichPersonParams {
	return EnrichPersonParams{
		FirstName: strings.TrimSpace(h.FirstName),
		LastName:  strings.TrimSpace(h.LastName),
		Company:   strings.TrimSpace(h.Company),
	}
}

type CompanyIdentityHint struct {
	Name string
}

func (h CompanyIdentityHint) EnrichParams() EnrichCompanyParams {
	return EnrichCompanyParams{Name: strings.TrimSpace(h.Name)}
}

// PersonKeyFields are the normalized natural key of a person: lowercase first and last
// name, optionally qualified by a lowercase company name.
type PersonKeyFields struct {
	FirstName string
	LastName  string
	Company   string
}

type CompanyKeyFields struct {
	Name string
}

// LookupKey identifies at most one cache entry within a tenant. Exactly one of Person
// and Company is set, according to EntityType.
type LookupKey struct {
	EntityType     EntityType
	OrganizationId string
	Person         PersonKeyFields
	Company        CompanyKeyFields
}

func NewPersonLookupKey(organizationId string, hint PersonIdentityHint) (LookupKey, error) {
	fields := PersonKeyFields{
		FirstName: NormalizeKeyField(hint.FirstName),
		LastName:  NormalizeKeyField(hint.LastName),
		Company:   NormalizeKeyField(hint.Company),
	}
	if fields.FirstName == "" || fields.LastName == "" {
		return LookupKey{}, errors.Wrap(BadParameterError, "first name and last name are required")
	}
	if organizationId == "" {
		return LookupKey{}, errors.Wrap(ForbiddenError, "no organization to scope the lookup to")
	}

	return LookupKey{
		EntityType:     EntityTypePerson,
		OrganizationId: organizationId,
		Person:         fields,
	}, nil
}

func NewCompanyLookupKey(organizationId string, hint CompanyIdentityHint) (LookupKey, error) {
	fields := CompanyKeyFields{Name: NormalizeKeyField(hint.Name)}
	if fields.Name == "" {
		return LookupKey{}, errors.Wrap(BadParameterError, "company name is required")
	}
	if organizationId == "" {
		return LookupKey{}, errors.Wrap(ForbiddenError, "no organization to scope the lookup to")
	}

	return LookupKey{
		EntityType:     EntityTypeCompany,
		OrganizationId: organizationId,
		Company:        fields,
	}, nil
}

// Identifier joins the natural key fields with underscores, whitespace included:
// "Jane", "Doe", "Acme Corp" gives "jane_doe_acme_corp".
func (k LookupKey) Identifier() string {
	var parts []string
	switch k.EntityType {
	case EntityTypePerson:
		parts = []string{k.Person.FirstName, k.Person.LastName, k.Person.Company}
	case EntityTypeCompany:
		parts = []string{k.Company.Name}
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, strings.Join(strings.Fields(p), "_"))
		}
	}
	return strings.Join(nonEmpty, "_")
}

// NormalizeKeyField lowercases and collapses inner whitespace.
func NormalizeKeyField(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
