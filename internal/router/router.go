package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvet/internal/handler"
	"docvet/internal/middleware"
	"docvet/internal/service"
)

// Options holds the cross-cutting settings of the engine.
type Options struct {
	// AuthService guards /api/v1 when non-nil.
	AuthService service.AuthService
	CORSOrigins []string
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	validationH *handler.ValidationHandler,
	runH *handler.RunHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(opts.CORSOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	if opts.AuthService != nil {
		v1.Use(middleware.AuthMiddleware(opts.AuthService))
	}

	v1.POST("/validate/:kind", validationH.Validate)
	v1.GET("/kinds", validationH.Kinds)

	runs := v1.Group("/runs")
	runs.GET("", runH.List)
	runs.GET("/:id", runH.GetByID)
	runs.GET("/:id/export", runH.Export)

	return r
}
