package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/http/dto"
	"supporttriage.app/backend/internal/model"
)

type AIHandler struct {
	assistant brain.Assistant
}

func NewAIHandler(assistant brain.Assistant) *AIHandler {
	return &AIHandler{assistant: assistant}
}

func (h *AIHandler) Triage(c *gin.Context) {
	var req dto.TriageRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ticketID := int64(req.TicketID)
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{TicketID: &ticketID})

	suggestion, err := h.assistant.Triage(ctx, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTriageResponse(suggestion))
}

func (h *AIHandler) Summarize(c *gin.Context) {
	var req dto.SummaryRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ticketID := int64(req.TicketID)
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{TicketID: &ticketID})

	result, err := h.assistant.Summarize(ctx, ticketID, req.SaveAsNote)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(result))
}

func (h *AIHandler) DraftReply(c *gin.Context) {
	var req dto.ReplyDraftRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	ticketID := int64(req.TicketID)
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{TicketID: &ticketID})
	tone := model.ReplyTone(strings.ToUpper(strings.TrimSpace(req.Tone)))

	draft, err := h.assistant.DraftReply(ctx, ticketID, tone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReplyDraftResponse(draft))
}
