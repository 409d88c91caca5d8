package router

import (
	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/internal/http/handler"
)

func AIRouter(router *gin.RouterGroup, h *handler.AIHandler) {
	router.POST("/triage", h.Triage)
	router.POST("/summary", h.Summarize)
	router.POST("/reply-draft", h.DraftReply)
}
