package routes

import (
	"net/http"
	"time"

	"growthyari/handlers"
	"growthyari/middleware"
	"growthyari/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers slot and settings endpoints.
// Reads are public so clients can browse an expert's calendar; writes
// require an authenticated expert.
func RegisterAvailabilityRoutes(r *gin.Engine, ah *handlers.AvailabilityHandler) {
	api := r.Group("/api/experts/:expertId/availability")
	{
		api.GET("/slots", ah.ListSlotsHandler)
		api.GET("/settings", ah.GetSettingsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuth())
		protected.POST("/slots", ah.CreateSlotHandler)
		protected.DELETE("/slots/:slotId", ah.DeleteSlotHandler)
		protected.PUT("/settings", ah.UpdateSettingsHandler)
	}
}

// RegisterSessionRoutes registers booking and lifecycle endpoints. Every
// session endpoint requires authentication.
func RegisterSessionRoutes(r *gin.Engine, sh *handlers.SessionHandler) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.JWTAuth())
		api.POST("", sh.BookSessionHandler)
		api.GET("", sh.ListSessionsHandler)
		api.GET("/:sessionId", sh.GetSessionHandler)
		api.POST("/:sessionId/confirm", sh.ConfirmSessionHandler)
		api.POST("/:sessionId/decline", sh.DeclineSessionHandler)
		api.POST("/:sessionId/cancel", sh.CancelSessionHandler)
		api.POST("/:sessionId/complete", sh.CompleteSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// periodic dependency monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm GrowthYari",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, ah *handlers.AvailabilityHandler, sh *handlers.SessionHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, ah)
	RegisterSessionRoutes(r, sh)
}
