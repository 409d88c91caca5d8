package router

import (
	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/internal/http/handler"
)

func TicketRouter(router *gin.RouterGroup, h *handler.TicketHandler) {
	router.GET("", h.List)
	router.POST("", h.Create)
	router.GET("/:id", h.Get)
	router.PATCH("/:id", h.Update)
	router.GET("/:id/notes", h.ListNotes)
	router.POST("/:id/notes", h.CreateNote)
	router.GET("/:id/ai-runs", h.ListAiRuns)
}
