package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextKeyUser = "auth_user"
)

// Middleware provides authentication and authorization middleware
type Middleware struct {
	sessionStore *SessionStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessionStore *SessionStore) *Middleware {
	return &Middleware{sessionStore: sessionStore}
}

// RequireSession returns a middleware that validates session cookies
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := m.sessionStore.GetSessionFromCookie(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authenticated",
			})
			return
		}

		user, err := m.sessionStore.GetUserFromSession(sessionID)
		if err != nil || user == nil {
			m.sessionStore.ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "session expired or invalid",
			})
			return
		}

		// Check user status
		if user.Status != StatusActive {
			m.sessionStore.ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("account is %s", user.Status),
			})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole returns a middleware that checks if the user has the required role
func (m *Middleware) RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get(ContextKeyUser)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not authenticated",
			})
			return
		}

		user, ok := userVal.(*User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "invalid user context",
			})
			return
		}

		if user.Role != role && user.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("requires %s role", role),
			})
			return
		}

		c.Next()
	}
}

// OptionalSession attempts to load a session but doesn't fail if none exists
func (m *Middleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := m.sessionStore.GetSessionFromCookie(c)
		if err != nil {
			c.Next()
			return
		}

		user, err := m.sessionStore.GetUserFromSession(sessionID)
		if err == nil && user != nil && user.Status == StatusActive {
			c.Set(ContextKeyUser, user)
		}

		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
}
