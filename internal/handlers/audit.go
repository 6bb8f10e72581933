package handlers

import (
	"net/http"
	"time"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	log     *logger.Logger
	audit   services.AuditService
	devMode bool
}

func NewAuditHandler(log *logger.Logger, audit services.AuditService, devMode bool) *AuditHandler {
	return &AuditHandler{log: log.With("handler", "AuditHandler"), audit: audit, devMode: devMode}
}

func (h *AuditHandler) History(c *gin.Context) {
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	entries, err := h.audit.History(c.Request.Context(), workOrderID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type addNoteRequest struct {
	Text string `json:"text"`
	// Date backdates the note, day granularity ("2026-03-14").
	Date string `json:"date"`
}

func (r *addNoteRequest) Validate() (day *time.Time, err error) {
	if r.Text == "" {
		return nil, apperr.Validation("note_empty", "note text must not be empty")
	}
	if r.Date == "" {
		return nil, nil
	}
	t, perr := time.Parse("2006-01-02", r.Date)
	if perr != nil {
		return nil, apperr.Validation("bad_date", "invalid date %q, want YYYY-MM-DD", r.Date)
	}
	return &t, nil
}

func (h *AuditHandler) AddNote(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	day, err := req.Validate()
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	if err := h.audit.AddNote(c.Request.Context(), actor.ID, workOrderID, req.Text, day); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.Status(http.StatusCreated)
}
