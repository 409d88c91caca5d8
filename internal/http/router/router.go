package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/http/handler"
	"supporttriage.app/backend/internal/service"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Health HealthChecker
}

func SetupRoutes(router *gin.Engine, services *service.Services, assistant brain.Assistant, cfg RouterConfig) {
	router.GET("/health", healthHandler(cfg.Health))

	api := router.Group("/api")
	{
		ticketHandler := handler.NewTicketHandler(services.Tickets(), services.Notes(), services.AiRuns())
		TicketRouter(api.Group("/tickets"), ticketHandler)

		aiHandler := handler.NewAIHandler(assistant)
		AIRouter(api.Group("/ai"), aiHandler)
	}
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
