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

type ClientHandler struct {
	log     *logger.Logger
	clients repos.ClientRepo
	devMode bool
}

func NewClientHandler(log *logger.Logger, clients repos.ClientRepo, devMode bool) *ClientHandler {
	return &ClientHandler{log: log.With("handler", "ClientHandler"), clients: clients, devMode: devMode}
}

type createClientRequest struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

func (r *createClientRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 2 {
		return apperr.Validation("name_too_short", "client name must be at least 2 characters")
	}
	return nil
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	client := &models.Client{
		Name:         strings.TrimSpace(req.Name),
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Notes:        req.Notes,
	}
	if err := h.clients.Create(c.Request.Context(), nil, client); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	list, err := h.clients.List(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
