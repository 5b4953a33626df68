package api

import (
	"github.com/gin-gonic/gin"

	"github.com/terraquest/terraquest-backend/internal/auth"
)

// NewRouter builds the gin engine with all routes registered. Routes that
// mutate user state require a bearer token issued by the auth service.
func NewRouter(h *Handler, issuer *auth.TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware())

	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/api/v1")
	{
		// Auth
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		// Catalogs
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:barcode", h.GetProduct)
		v1.GET("/rewards", h.ListRewards)
		v1.GET("/badges", h.ListBadges)

		// Leaderboard and profiles
		v1.GET("/users/leaderboard", h.GetLeaderboard)
		v1.GET("/users/:id", h.GetUser)
		v1.GET("/users/:id/rank", h.GetUserRank)

		// Authenticated
		authed := v1.Group("")
		authed.Use(AuthRequired(issuer))
		{
			authed.POST("/scans", h.CreateScan)
			authed.GET("/scans/user/:id", h.GetScanHistory)
			authed.GET("/challenges", h.GetChallenges)
			authed.POST("/rewards/:id/redeem", h.RedeemReward)
		}
	}

	return r
}
