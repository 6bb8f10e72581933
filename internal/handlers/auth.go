package handlers

import (
	"net/http"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/repos"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	log     *logger.Logger
	users   repos.UserRepo
	devMode bool
}

func NewAuthHandler(log *logger.Logger, users repos.UserRepo, devMode bool) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), users: users, devMode: devMode}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return apperr.Validation("credentials_required", "username and password are required")
	}
	return nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("bad_json", "malformed request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), nil, req.Username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		// Same answer for unknown user and wrong password.
		respondError(c, h.log, h.devMode, apperr.Forbidden("bad_credentials", "invalid username or password"))
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	if err := sess.Save(); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.Status(http.StatusNoContent)
}
