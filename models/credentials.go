package models

type Identity struct {
	ApiKeyId   string
	ApiKeyName string
}

// Credentials identify the tenant on whose behalf a request runs. Key is the raw
// tenant credential, forwarded as-is to the shared cache backend.
type Credentials struct {
	ActorIdentity  Identity
	OrganizationId string
	Key            string
}

func (k ApiKey) IntoCredentials(rawKey string) Credentials {
	return Credentials{
		ActorIdentity: Identity{
			ApiKeyId:   k.Id,
			ApiKeyName: k.Description,
		},
		OrganizationId: k.OrganizationId,
		Key:            rawKey,
	}
}
