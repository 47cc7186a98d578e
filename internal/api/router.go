package api

import (
	"github.com/Tototoyo/cctv-pr/internal/api/handlers"
	apimiddleware "github.com/Tototoyo/cctv-pr/internal/api/middleware"
	"github.com/Tototoyo/cctv-pr/internal/config"
	"github.com/Tototoyo/cctv-pr/internal/metrics"
	"github.com/Tototoyo/cctv-pr/internal/services"
	"github.com/Tototoyo/cctv-pr/pkg/sse"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived collaborators the routes are bound to
type Dependencies struct {
	Config     *config.Config
	Generation *services.GenerationService
	Prompts    *services.PromptGateway
	Events     *sse.Hub
	CloudWatch *metrics.Client
	Version    string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.CloudWatch))

	router.Use(apimiddleware.CORS())

	healthHandler := handlers.NewHealthHandler(deps.Config.GenerationBackend, deps.Config.StoreBackend)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := handlers.NewMetricsHandler(deps.Version, deps.Generation)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/options", handlers.GetOptions)

		generationHandler := handlers.NewGenerationHandler(deps.Generation, deps.Generation)
		v1.POST("/prompts/generate", generationHandler.Generate)
		v1.GET("/generation/state", generationHandler.GetState)

		promptHandler := handlers.NewPromptHandler(deps.Prompts, deps.Events, deps.Config.GalleryLimit)
		v1.GET("/prompts", promptHandler.ListPrompts)
		v1.DELETE("/prompts/:id", promptHandler.DeletePrompt)
		v1.POST("/prompts/download", promptHandler.DownloadPrompt)

		// Server-sent refresh notifications for the recent-prompts view
		v1.GET("/events", sse.Handler(deps.Events, handlers.TopicPrompts))
	}

	return router
}
