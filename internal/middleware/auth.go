package middleware

import (
	"github.com/buildcrew/crew-management-api/internal/constants"
	apierrors "github.com/buildcrew/crew-management-api/internal/errors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireWorkerAuth checks that a worker is logged in via session PIN login.
func RequireWorkerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		workerID := session.Get(constants.ContextKeyWorkerID)

		if workerID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store worker ID in context for easy access in handlers
		c.Set(constants.ContextKeyWorkerID, workerID)
		c.Next()
	}
}

// RequireAdmin checks that the session belongs to a logged-in admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		isAdmin, ok := session.Get(constants.ContextKeyIsAdmin).(bool)

		if !ok || !isAdmin {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIsAdmin, true)
		c.Next()
	}
}

// GetWorkerID retrieves the current worker ID from context
func GetWorkerID(c *gin.Context) (uint64, bool) {
	workerID, exists := c.Get(constants.ContextKeyWorkerID)
	if !exists {
		return 0, false
	}

	switch v := workerID.(type) {
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

// IsAdmin reports whether the current request is an admin session.
func IsAdmin(c *gin.Context) bool {
	isAdmin, exists := c.Get(constants.ContextKeyIsAdmin)
	if !exists {
		return false
	}
	admin, ok := isAdmin.(bool)
	return ok && admin
}
