package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supporttriage.app/backend/internal/http/dto"
	"supporttriage.app/backend/internal/model"
	"supporttriage.app/backend/internal/service"
)

type TicketHandler struct {
	tickets service.TicketService
	notes   service.NoteService
	runs    service.AiRunService
}

func NewTicketHandler(tickets service.TicketService, notes service.NoteService, runs service.AiRunService) *TicketHandler {
	return &TicketHandler{tickets: tickets, notes: notes, runs: runs}
}

func (h *TicketHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var status *model.TicketStatus
	if raw := c.Query("status"); raw != "" {
		s, err := model.ParseTicketStatus(raw)
		if err != nil {
			respondError(c, &RequestError{Message: err.Error()})
			return
		}
		status = &s
	}

	tickets, err := h.tickets.List(ctx, status, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponses(tickets))
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	params := service.CreateTicketParams{
		Subject:        req.Subject,
		RequesterEmail: req.RequesterEmail,
		Body:           req.Body,
		Category:       req.Category,
		Tags:           req.Tags,
	}
	var err error
	if params.Status, err = parseStatusField(req.Status); err != nil {
		respondError(c, err)
		return
	}
	if params.Priority, err = parsePriorityField(req.Priority); err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.UpdateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	update := model.TicketUpdate{
		Subject:        req.Subject,
		RequesterEmail: req.RequesterEmail,
		Body:           req.Body,
		Category:       req.Category,
		Tags:           req.Tags,
	}
	if update.Status, err = parseStatusField(req.Status); err != nil {
		respondError(c, err)
		return
	}
	if update.Priority, err = parsePriorityField(req.Priority); err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) ListNotes(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.tickets.Get(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	notes, err := h.notes.List(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNoteResponses(notes))
}

func (h *TicketHandler) CreateNote(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req dto.CreateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), id, req.Type, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToNoteResponse(note))
}

func (h *TicketHandler) ListAiRuns(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	runs, err := h.runs.ListByTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAiRunResponses(runs))
}

func parseStatusField(raw *string) (*model.TicketStatus, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := model.ParseTicketStatus(*raw)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"status": err.Error()}}
	}
	return &s, nil
}

func parsePriorityField(raw *string) (*model.TicketPriority, error) {
	if raw == nil {
		return nil, nil
	}
	p, err := model.ParseTicketPriority(*raw)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"priority": err.Error()}}
	}
	return &p, nil
}
