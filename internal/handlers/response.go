package handlers

import (
	"net/http"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/middleware"
	"workdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the structured error response. Current carries the
// authoritative state on conflicts so callers can reconcile.
type ErrorEnvelope struct {
	Error   APIError    `json:"error"`
	Current interface{} `json:"current,omitempty"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates the error taxonomy into a structured response.
// Internal faults are logged with full detail and echoed to the caller only
// in development mode.
func respondError(c *gin.Context, log *logger.Logger, devMode bool, err error) {
	ae := apperr.From(err)
	status := statusFor(ae.Kind)

	msg := ae.Error()
	if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindUnknown {
		log.Error("internal fault", "path", c.FullPath(), "error", err)
		if !devMode {
			msg = "internal error"
		}
	}

	c.JSON(status, ErrorEnvelope{
		Error:   APIError{Message: msg, Code: ae.Code},
		Current: ae.Current,
	})
}

// actorFrom returns the authenticated user injected by the middleware.
func actorFrom(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
