package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkmarble/marble-enrichment/dto"
	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/usecases"
	"github.com/checkmarble/marble-enrichment/utils"
)

func handleListPersonCacheEntries(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query dto.PersonCacheQuery
		if presentError(c, c.ShouldBindQuery(&query)) {
			return
		}

		entries, err := uc.NewSharedCacheUsecase().ListPersonEntries(c.Request.Context(), query.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptSharedCacheListDto(entries))
	}
}

func handleListCompanyCacheEntries(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query dto.CompanyCacheQuery
		if presentError(c, c.ShouldBindQuery(&query)) {
			return
		}

		entries, err := uc.NewSharedCacheUsecase().ListCompanyEntries(c.Request.Context(), query.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptSharedCacheListDto(entries))
	}
}

func handleCreatePersonCacheEntry(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var input dto.CreatePersonCacheEntryInput
		if presentError(c, c.ShouldBindJSON(&input)) {
			return
		}

		entry, err := uc.NewSharedCacheUsecase().SavePersonEntry(c.Request.Context(),
			input.Hint(), input.Payload, input.Likelihood)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusCreated, dto.AdaptSharedCacheEntryDto(entry))
	}
}

func handleCreateCompanyCacheEntry(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var input dto.CreateCompanyCacheEntryInput
		if presentError(c, c.ShouldBindJSON(&input)) {
			return
		}

		entry, err := uc.NewSharedCacheUsecase().SaveCompanyEntry(c.Request.Context(),
			input.Hint(), input.Payload, input.Likelihood)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusCreated, dto.AdaptSharedCacheEntryDto(entry))
	}
}

func handleInvalidatePersonCacheEntries(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query dto.PersonCacheQuery
		if presentError(c, c.ShouldBindQuery(&query)) {
			return
		}

		deleted, err := uc.NewSharedCacheUsecase().InvalidatePersonEntries(c.Request.Context(), query.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.InvalidatedEntriesDto{Deleted: deleted})
	}
}

func handleInvalidateCompanyCacheEntries(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var query dto.CompanyCacheQuery
		if presentError(c, c.ShouldBindQuery(&query)) {
			return
		}

		deleted, err := uc.NewSharedCacheUsecase().InvalidateCompanyEntries(c.Request.Context(), query.Hint())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.InvalidatedEntriesDto{Deleted: deleted})
	}
}

func handleGetCredentials(c *gin.Context) {
	creds, found := utils.CredentialsFromCtx(c.Request.Context())
	if !found {
		presentError(c, models.UnAuthorizedError)
		return
	}

	c.JSON(http.StatusOK, dto.AdaptCredentialsDto(creds))
}
