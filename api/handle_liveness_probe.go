package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/checkmarble/marble-enrichment/dto"
	"github.com/checkmarble/marble-enrichment/usecases"
)

func handleLivenessProbe(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		status := uc.NewHealthUsecase().GetHealthStatus(c.Request.Context())

		if !status.IsHealthy() {
			c.JSON(http.StatusServiceUnavailable, dto.AdaptHealthStatus(status))
			return
		}
		c.JSON(http.StatusOK, dto.AdaptHealthStatus(status))
	}
}

func handleVersion(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": uc.ApiVersion()})
	}
}
