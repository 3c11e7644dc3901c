package utils

import (
	"context"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

func CredentialsFromCtx(ctx context.Context) (models.Credentials, bool) {
	creds, ok := ctx.Value(ContextKeyCredentials).(models.Credentials)
	return creds, ok
}

func StoreCredentialsInContext(ctx context.Context, creds models.Credentials) context.Context {
	return context.WithValue(ctx, ContextKeyCredentials, creds)
}

func StoreCredentialsInContextMiddleware(c *gin.Context, creds models.Credentials) {
	c.Request = c.Request.WithContext(StoreCredentialsInContext(c.Request.Context(), creds))
}

// OrganizationIdFromContext returns the tenant of the current request.
func OrganizationIdFromContext(ctx context.Context) (string, error) {
	creds, found := CredentialsFromCtx(ctx)
	if !found {
		return "", errors.Wrap(models.ForbiddenError, "no credentials in context")
	}
	if creds.OrganizationId == "" {
		return "", errors.Wrap(models.ForbiddenError,
			"credentials do not grant access to any organization")
	}
	return creds.OrganizationId, nil
}
