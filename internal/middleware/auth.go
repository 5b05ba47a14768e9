package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/event-task-api/internal/auth"
	"github.com/yukikurage/event-task-api/internal/constants"
	apierrors "github.com/yukikurage/event-task-api/internal/errors"
)

// RequireAuth accepts a bearer token first and falls back to the login session.
// A malformed or expired bearer token is rejected even when a session exists.
func RequireAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				apierrors.RespondUnauthorized(c, "Invalid authorization header")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				apierrors.RespondUnauthorized(c, "Invalid or expired token")
				return
			}
			userID, _ := claims.UserID()

			c.Set(constants.ContextKeyUserID, userID)
			c.Set(constants.ContextKeyUserEmail, claims.Email)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		if userID == nil {
			apierrors.RespondUnauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
