package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkmarble/marble-enrichment/dto"
	"github.com/checkmarble/marble-enrichment/usecases"
)

func handleResolvePerson(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var input dto.ResolvePersonInput
		if presentError(c, c.ShouldBindJSON(&input)) {
			return
		}

		resolution, err := uc.NewEnrichmentUsecase().ResolvePerson(c.Request.Context(), input.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptResolutionDto(resolution))
	}
}

func handleResolveCompany(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var input dto.ResolveCompanyInput
		if presentError(c, c.ShouldBindJSON(&input)) {
			return
		}

		resolution, err := uc.NewEnrichmentUsecase().ResolveCompany(c.Request.Context(), input.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptResolutionDto(resolution))
	}
}

func handleExtractEntities(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var input dto.ExtractEntitiesInput
		if presentError(c, c.ShouldBindJSON(&input)) {
			return
		}

		entities := uc.NewEnrichmentUsecase().ExtractEntities(input.Text)
		c.JSON(http.StatusOK, dto.AdaptExtractedEntitiesDto(entities))
	}
}

func handleClearLocalCache(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		err := uc.NewEnrichmentUsecase().ClearLocalCache(c.Request.Context())
		if presentError(c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}
