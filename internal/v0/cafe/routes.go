package cafe

import (
	"backoffice/internal/auth"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware) {
	cafe := rg.Group("/cafe")
	cafe.Use(authMiddleware.RequireSession())
	{
		cafe.GET("/tomorrow", h.GetTomorrow)
		cafe.POST("/vote", h.PostVote)
		cafe.GET("/my-vote", h.GetMyVote)
		cafe.GET("/today", h.GetToday)
		cafe.GET("/status", h.GetStatus)

		cafe.GET("/suggestions", h.GetSuggestions)
		cafe.POST("/suggestions", h.PostSuggestion)
		cafe.POST("/suggestions/:id/upvote", h.UpvoteSuggestion)
		cafe.DELETE("/suggestions/:id/upvote", h.RemoveSuggestionUpvote)

		admin := cafe.Group("")
		admin.Use(authMiddleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/menu", h.PostMenu)
			admin.PUT("/menu/:id", h.UpdateOption)
			admin.DELETE("/menu/:id", h.DeleteOption)
			admin.GET("/votes/count", h.GetVoteCount)
			admin.POST("/close-voting", h.CloseVoting)
			admin.POST("/decide-tie", h.DecideTie)
			admin.GET("/history", h.GetHistory)

			admin.POST("/suggestions/open", h.OpenSuggestions)
			admin.POST("/suggestions/close", h.CloseSuggestions)
			admin.DELETE("/suggestions/:id", h.DeleteSuggestion)
		}
	}
}
