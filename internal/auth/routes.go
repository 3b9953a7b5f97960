package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all auth-related routes
func RegisterRoutes(
	router *gin.RouterGroup,
	handler *Handler,
	adminHandler *AdminHandler,
	middleware *Middleware,
) {
	auth := router.Group("/auth")
	{
		// Public OAuth routes
		auth.GET("/login/:provider", handler.Login)
		auth.GET("/callback/:provider", handler.Callback)

		// Session-protected routes
		sessionProtected := auth.Group("")
		sessionProtected.Use(middleware.RequireSession())
		{
			sessionProtected.GET("/me", handler.Me)
			sessionProtected.GET("/logout", handler.Logout)
		}
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(middleware.RequireSession())
	admin.Use(middleware.RequireRole(RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
	}
}
