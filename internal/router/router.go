package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"billaudit/internal/config"
	"billaudit/internal/handler"
	"billaudit/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log zerolog.Logger,
	analysisH *handler.AnalysisHandler,
	lookupH *handler.LookupHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	bill := v1.Group("/bill")
	bill.POST("/analyze", analysisH.Analyze)
	bill.POST("/analyze/export", analysisH.AnalyzeExport)

	codes := v1.Group("/codes")
	codes.GET("/:code", lookupH.GetCode)

	return r
}
