package api

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/utils"
)

const API_KEY_HEADER = "X-Api-Key"

const (
	DEFAULT_CREDENTIALS_CACHE_SIZE = 1000
	DEFAULT_CREDENTIALS_CACHE_TTL  = 5 * time.Minute
)

// CredentialsResolver turns a raw api key into the credentials of its organization.
type CredentialsResolver func(ctx context.Context, apiKey string) (models.Credentials, error)

type Authentication struct {
	resolve CredentialsResolver
}

func NewAuthentication(resolve CredentialsResolver) Authentication {
	return Authentication{resolve: resolve}
}

// Middleware rejects requests without a valid api key and stores the credentials of
// valid ones in the request context.
func (a Authentication) Middleware(c *gin.Context) {
	ctx := c.Request.Context()

	key := c.GetHeader(API_KEY_HEADER)
	if key == "" {
		presentError(c, errors.Wrap(models.UnAuthorizedError, "missing api key"))
		return
	}

	creds, err := a.resolve(ctx, key)
	if presentError(c, err) {
		return
	}

	utils.StoreCredentialsInContextMiddleware(c, creds)
	c.Request = c.Request.WithContext(utils.StoreLoggerInContext(c.Request.Context(),
		utils.LoggerFromContext(ctx).With("org_id", creds.OrganizationId)))
	c.Next()
}

// CachedCredentialsResolver memoizes successful resolutions. Failures are never cached,
// so a key created on the backend is usable right away.
func CachedCredentialsResolver(resolve CredentialsResolver, size int, ttl time.Duration) CredentialsResolver {
	if size <= 0 {
		size = DEFAULT_CREDENTIALS_CACHE_SIZE
	}
	if ttl <= 0 {
		ttl = DEFAULT_CREDENTIALS_CACHE_TTL
	}
	cache := expirable.NewLRU[string, models.Credentials](size, nil, ttl)

	return func(ctx context.Context, apiKey string) (models.Credentials, error) {
		if creds, ok := cache.Get(apiKey); ok {
			return creds, nil
		}

		creds, err := resolve(ctx, apiKey)
		if err != nil {
			return models.Credentials{}, err
		}
		cache.Add(apiKey, creds)
		return creds, nil
	}
}
