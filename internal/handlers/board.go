package handlers

import (
	"net/http"
	"strings"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	log        *logger.Logger
	board      repos.BoardRepo
	workOrders repos.WorkOrderRepo
	devMode    bool
}

func NewBoardHandler(log *logger.Logger, board repos.BoardRepo, workOrders repos.WorkOrderRepo, devMode bool) *BoardHandler {
	return &BoardHandler{
		log:        log.With("handler", "BoardHandler"),
		board:      board,
		workOrders: workOrders,
		devMode:    devMode,
	}
}

type createBoardEntryRequest struct {
	Lane     string `json:"lane"`
	Position int    `json:"position"`
	Label    string `json:"label"`
}

func (r *createBoardEntryRequest) Validate() error {
	if strings.TrimSpace(r.Lane) == "" {
		return apperr.Validation("lane_required", "lane must not be empty")
	}
	return nil
}

func (h *BoardHandler) Create(c *gin.Context) {
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	var req createBoardEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	if _, err := h.workOrders.GetByID(c.Request.Context(), nil, workOrderID); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	entry := &models.BoardEntry{
		WorkOrderID: workOrderID,
		Lane:        req.Lane,
		Position:    req.Position,
		Label:       req.Label,
	}
	if err := h.board.Create(c.Request.Context(), nil, entry); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *BoardHandler) List(c *gin.Context) {
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	entries, err := h.board.ListByWorkOrder(c.Request.Context(), nil, workOrderID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
