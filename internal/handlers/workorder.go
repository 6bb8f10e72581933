package handlers

import (
	"net/http"
	"strconv"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/services"

	"github.com/gin-gonic/gin"
)

type WorkOrderHandler struct {
	log        *logger.Logger
	workOrders services.WorkOrderService
	devMode    bool
}

func NewWorkOrderHandler(log *logger.Logger, workOrders services.WorkOrderService, devMode bool) *WorkOrderHandler {
	return &WorkOrderHandler{
		log:        log.With("handler", "WorkOrderHandler"),
		workOrders: workOrders,
		devMode:    devMode,
	}
}

func idParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("bad_id", "invalid id %q", raw)
	}
	return uint(id), nil
}

type createWorkOrderRequest struct {
	services.WorkOrderFields
}

type updateWorkOrderRequest struct {
	services.WorkOrderFields
	RowVersion int64 `json:"row_version"`
}

func (h *WorkOrderHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}

	var req createWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}

	wo, err := h.workOrders.Create(c.Request.Context(), actor.ID, &req.WorkOrderFields)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, wo)
}

func (h *WorkOrderHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	var req updateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if req.RowVersion <= 0 {
		respondError(c, h.log, h.devMode, apperr.Validation("row_version_required", "row_version must be supplied"))
		return
	}

	wo, err := h.workOrders.Update(c.Request.Context(), actor.ID, id, req.RowVersion, &req.WorkOrderFields)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, wo)
}

func (h *WorkOrderHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	detail, err := h.workOrders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *WorkOrderHandler) List(c *gin.Context) {
	var clientID uint
	if raw := c.Query("client_id"); raw != "" {
		if cid, err := strconv.ParseUint(raw, 10, 32); err == nil {
			clientID = uint(cid)
		}
	}
	list, err := h.workOrders.List(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
