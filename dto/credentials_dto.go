package dto

import (
	"github.com/checkmarble/marble-enrichment/models"
)

type CredentialsDto struct {
	OrganizationId string `json:"organization_id"`
	ApiKeyId       string `json:"api_key_id"`
	Description    string `json:"description"`
}

func AdaptCredentialsDto(creds models.Credentials) CredentialsDto {
	return CredentialsDto{
		OrganizationId: creds.OrganizationId,
		ApiKeyId:       creds.ActorIdentity.ApiKeyId,
		Description:    creds.ActorIdentity.ApiKeyName,
	}
}

type CreatedApiKeyDto struct {
	Id             string `json:"id"`
	OrganizationId string `json:"organization_id"`
	Description    string `json:"description"`
	Key            string `json:"key"`
}

func AdaptCreatedApiKeyDto(apiKey models.ApiKey, rawKey string) CreatedApiKeyDto {
	return CreatedApiKeyDto{
		Id:             apiKey.Id,
		OrganizationId: apiKey.OrganizationId,
		Description:    apiKey.Description,
		Key:            rawKey,
	}
}
