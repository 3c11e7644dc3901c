package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	timeout "github.com/vearne/gin-timeout"

	"github.com/checkmarble/marble-enrichment/usecases"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.Timeout(
		timeout.WithTimeout(duration),
		timeout.WithErrorHttpCode(http.StatusRequestTimeout),
		timeout.WithDefaultMsg("Request timeout"),
	)
}

// AddEnrichmentRoutes mounts the api of an enrichment server instance.
func AddEnrichmentRoutes(r *gin.Engine, conf Configuration, uc *usecases.Usecases, auth Authentication) {
	r.GET("/liveness", handleLivenessProbe(uc))
	r.GET("/version", handleVersion(uc))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	resolveTimeout := timeoutMiddleware(conf.ResolveTimeout)
	defaultTimeout := timeoutMiddleware(conf.DefaultTimeout)

	router := r.Group("/enrichment", auth.Middleware)
	router.POST("/persons/resolve", resolveTimeout, handleResolvePerson(uc))
	router.POST("/companies/resolve", resolveTimeout, handleResolveCompany(uc))
	router.POST("/extract", defaultTimeout, handleExtractEntities(uc))
	router.DELETE("/local-cache", defaultTimeout, handleClearLocalCache(uc))
}

// AddCacheBackendRoutes mounts the shared cache api, called by enrichment servers.
func AddCacheBackendRoutes(r *gin.Engine, conf Configuration, uc *usecases.Usecases, auth Authentication) {
	r.GET("/liveness", handleLivenessProbe(uc))
	r.GET("/version", handleVersion(uc))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router := r.Group("/cache", auth.Middleware, timeoutMiddleware(conf.DefaultTimeout))
	router.GET("/persons", handleListPersonCacheEntries(uc))
	router.POST("/persons", handleCreatePersonCacheEntry(uc))
	router.DELETE("/persons", handleInvalidatePersonCacheEntries(uc))
	router.GET("/companies", handleListCompanyCacheEntries(uc))
	router.POST("/companies", handleCreateCompanyCacheEntry(uc))
	router.DELETE("/companies", handleInvalidateCompanyCacheEntries(uc))
	router.GET("/credentials", handleGetCredentials)
}
