package dto

import (
	"github.com/checkmarble/marble-enrichment/models"
)

type ResolvePersonInput struct {
	FirstName string `json:"first_name" binding:"required,max=200"`
	LastName  string `json:"last_name" binding:"required,max=200"`
	Company   string `json:"company" binding:"max=200"`
}

func (input ResolvePersonInput) Hint() models.PersonIdentityHint {
	return models.PersonIdentityHint{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Company:   input.Company,
	}
}

type ResolveCompanyInput struct {
	Name string `json:"name" binding:"required,max=200"`
}

func (input ResolveCompanyInput) Hint() models.CompanyIdentityHint {
	return models.CompanyIdentityHint{Name: input.Name}
}

// ResolutionDto is rendered for every resolution: Match is false and Profile null when
// no confident profile was found.
type ResolutionDto[T any] struct {
	Match      bool   `json:"match"`
	Profile    *T     `json:"profile"`
	Likelihood int    `json:"likelihood,omitempty"`
	Source     string `json:"source,omitempty"`
}

func AdaptResolutionDto[T any](resolution *models.Resolution[T]) ResolutionDto[T] {
	if resolution == nil {
		return ResolutionDto[T]{Match: false}
	}

	profile := resolution.Profile
	return ResolutionDto[T]{
		Match:      true,
		Profile:    &profile,
		Likelihood: resolution.Likelihood,
		Source:     string(resolution.Source),
	}
}

type ExtractEntitiesInput struct {
	Text string `json:"text" binding:"required,max=20000"`
}

type ExtractedEntitiesDto struct {
	PersonNames []string `json:"person_names"`
	CompanyName *string  `json:"company_name"`
}

func AdaptExtractedEntitiesDto(entities models.ExtractedEntities) ExtractedEntitiesDto {
	names := entities.PersonNames
	if names == nil {
		names = []string{}
	}
	return ExtractedEntitiesDto{
		PersonNames: names,
		CompanyName: entities.CompanyName,
	}
}
