package handlers

import (
	"net/http"
	"time"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/services"

	"github.com/gin-gonic/gin"
)

type TimerHandler struct {
	log      *logger.Logger
	tracking services.TimeTrackingService
	devMode  bool
}

func NewTimerHandler(log *logger.Logger, tracking services.TimeTrackingService, devMode bool) *TimerHandler {
	return &TimerHandler{
		log:      log.With("handler", "TimerHandler"),
		tracking: tracking,
		devMode:  devMode,
	}
}

type startTimerRequest struct {
	WorkOrderID uint `json:"work_order_id"`
}

func (r *startTimerRequest) Validate() error {
	if r.WorkOrderID == 0 {
		return apperr.Validation("work_order_required", "work_order_id is required")
	}
	return nil
}

func (h *TimerHandler) Start(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}

	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	entry, err := h.tracking.Start(c.Request.Context(), actor.ID, req.WorkOrderID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type stopTimerRequest struct {
	EntryID uint `json:"entry_id"`
}

func (r *stopTimerRequest) Validate() error {
	if r.EntryID == 0 {
		return apperr.Validation("entry_required", "entry_id is required")
	}
	return nil
}

func (h *TimerHandler) Stop(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}

	var req stopTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	entry, err := h.tracking.Stop(c.Request.Context(), actor, req.EntryID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type manualTimeRequest struct {
	WorkOrderID uint   `json:"work_order_id"`
	Date        string `json:"date"`
	// Hours is a locale-flexible decimal: "2.5" and "2,5" both mean two and
	// a half hours.
	Hours string `json:"hours"`
	Note  string `json:"note"`
}

func (r *manualTimeRequest) Validate() (time.Time, error) {
	if r.WorkOrderID == 0 {
		return time.Time{}, apperr.Validation("work_order_required", "work_order_id is required")
	}
	day, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, apperr.Validation("bad_date", "invalid date %q, want YYYY-MM-DD", r.Date)
	}
	return day, nil
}

func (h *TimerHandler) AddManual(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}

	var req manualTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	day, err := req.Validate()
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	entry, err := h.tracking.AddManual(c.Request.Context(), actor.ID, req.WorkOrderID, day, req.Hours, req.Note)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *TimerHandler) Current(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}
	entry, err := h.tracking.Current(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *TimerHandler) ForWorkOrder(c *gin.Context) {
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	res, err := h.tracking.ForWorkOrder(c.Request.Context(), workOrderID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
