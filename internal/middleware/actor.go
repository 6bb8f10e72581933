package middleware

import (
	"workdesk/internal/repos"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CtxUserKey is where InjectActor stores the authenticated *models.User.
const CtxUserKey = "CurrentUser"

// InjectActor resolves the session's user id to the full user row and makes
// it available to handlers. Missing or stale sessions just leave the key
// unset; RequireAuth decides whether that matters.
func InjectActor(users repos.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				if user, err := users.GetByID(c.Request.Context(), nil, uid); err == nil {
					c.Set(CtxUserKey, user)
				}
			}
		}
		c.Next()
	}
}
