package handlers

import (
	"net/http"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/repos"

	"github.com/gin-gonic/gin"
)

// SettingsHandler covers the two remaining versioned aggregates: the fiscal
// settings singleton and the caller's own profile. Both write through the
// same optimistic-concurrency primitive as work orders.
type SettingsHandler struct {
	log     *logger.Logger
	fiscal  repos.FiscalRepo
	users   repos.UserRepo
	devMode bool
}

func NewSettingsHandler(log *logger.Logger, fiscal repos.FiscalRepo, users repos.UserRepo, devMode bool) *SettingsHandler {
	return &SettingsHandler{
		log:     log.With("handler", "SettingsHandler"),
		fiscal:  fiscal,
		users:   users,
		devMode: devMode,
	}
}

func (h *SettingsHandler) GetFiscal(c *gin.Context) {
	fs, err := h.fiscal.Get(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, fs)
}

type updateFiscalRequest struct {
	VATRate           float64 `json:"vat_rate"`
	Currency          string  `json:"currency"`
	InvoicePrefix     string  `json:"invoice_prefix"`
	NextInvoiceNumber int     `json:"next_invoice_number"`
	RowVersion        int64   `json:"row_version"`
}

func (r *updateFiscalRequest) Validate() error {
	if r.VATRate < 0 || r.VATRate > 100 {
		return apperr.Validation("invalid_vat", "vat rate must be within [0,100]")
	}
	if len(r.Currency) != 3 {
		return apperr.Validation("invalid_currency", "currency must be a 3-letter code")
	}
	if r.NextInvoiceNumber < 1 {
		return apperr.Validation("invalid_invoice_number", "next invoice number must be positive")
	}
	if r.RowVersion <= 0 {
		return apperr.Validation("row_version_required", "row_version must be supplied")
	}
	return nil
}

func (h *SettingsHandler) UpdateFiscal(c *gin.Context) {
	var req updateFiscalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	current, err := h.fiscal.Get(c.Request.Context(), nil)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	fs, err := h.fiscal.UpdateVersioned(c.Request.Context(), nil, current.ID, req.RowVersion, map[string]interface{}{
		"vat_rate":            req.VATRate,
		"currency":            req.Currency,
		"invoice_prefix":      req.InvoicePrefix,
		"next_invoice_number": req.NextInvoiceNumber,
	})
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, fs)
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	RowVersion  int64  `json:"row_version"`
}

func (r *updateProfileRequest) Validate() error {
	if r.DisplayName == "" {
		return apperr.Validation("display_name_required", "display name must not be empty")
	}
	if r.RowVersion <= 0 {
		return apperr.Validation("row_version_required", "row_version must be supplied")
	}
	return nil
}

func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	user, err := h.users.UpdateVersioned(c.Request.Context(), nil, actor.ID, req.RowVersion, map[string]interface{}{
		"display_name": req.DisplayName,
	})
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
