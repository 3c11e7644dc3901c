package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/checkmarble/marble-enrichment/dto"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/pure_utils"
	"github.com/checkmarble/marble-enrichment/utils"
)

func presentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, response := adaptError(err)
	if status >= http.StatusInternalServerError {
		utils.LogAndReportSentryError(c.Request.Context(), err)
	} else {
		utils.LoggerFromContext(c.Request.Context()).InfoContext(c.Request.Context(),
			fmt.Sprintf("%d error: %v", status, err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, response)
	return true
}

func adaptError(err error) (int, dto.APIErrorResponse) {
	response := dto.APIErrorResponse{Message: err.Error()}

	var validationErrors validator.ValidationErrors
	var typeError *json.UnmarshalTypeError
	var remoteErr *models.RemoteApiError

	switch {
	case errors.As(err, &validationErrors):
		response.ErrorCode = dto.ErrorCodeInvalidPayload
		response.Message = "invalid payload"
		response.Details = pure_utils.Map(validationErrors, adaptFieldValidationError)
		return http.StatusBadRequest, response

	case errors.As(err, &typeError):
		response.ErrorCode = dto.ErrorCodeInvalidPayload
		response.Message = "invalid payload"
		response.Details = []string{
			fmt.Sprintf("field `%s` expected type %s, got type %s", typeError.Field, typeError.Type.String(), typeError.Value),
		}
		return http.StatusBadRequest, response

	case errors.As(err, &remoteErr):
		if remoteErr.IsServiceFailure() {
			response.ErrorCode = dto.ErrorCodeEnrichmentUnavailable
			return http.StatusBadGateway, response
		}
		response.ErrorCode = dto.ErrorCodeEnrichmentRejected
		return http.StatusFailedDependency, response

	case errors.Is(err, io.EOF), errors.Is(err, models.BadParameterError):
		response.ErrorCode = dto.ErrorCodeInvalidPayload
		return http.StatusBadRequest, response

	case errors.Is(err, models.UnAuthorizedError):
		response.ErrorCode = dto.ErrorCodeUnauthorized
		return http.StatusUnauthorized, response

	case errors.Is(err, models.ForbiddenError):
		response.ErrorCode = dto.ErrorCodeForbidden
		return http.StatusForbidden, response

	case errors.Is(err, models.NotFoundError):
		response.ErrorCode = dto.ErrorCodeNotFound
		return http.StatusNotFound, response

	case errors.Is(err, models.ConflictError):
		response.ErrorCode = dto.ErrorCodeConflict
		return http.StatusConflict, response

	case errors.Is(err, models.ConfigurationError):
		response.ErrorCode = dto.ErrorCodeNotConfigured
		return http.StatusNotImplemented, response
	}

	// internal details are logged, not rendered
	response.ErrorCode = dto.ErrorCodeInternalServerError
	response.Message = http.StatusText(http.StatusInternalServerError)
	return http.StatusInternalServerError, response
}
