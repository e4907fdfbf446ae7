package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/speclens/backend/config"
)

// SetupRouter creates and configures the Gin router. limiter may be nil to
// disable per-IP rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiter))
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:id", handler.GetProduct)
			products.GET("/:id/related", handler.RelatedProducts)
			products.GET("/:id/alternatives", handler.BudgetAlternatives)
			products.GET("/:id/compare/:otherId", handler.Compare)
		}

		personas := v1.Group("/personas")
		{
			personas.GET("", handler.ListPersonas)
			personas.POST("/match", handler.MatchPersona)
			personas.GET("/:id/matches", handler.PersonaMatches)
		}

		rankings := v1.Group("/rankings")
		{
			rankings.GET("", handler.Rankings)
			rankings.GET("/:criterion", handler.RankingFor)
		}
	}

	return router
}
