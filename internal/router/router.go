package router

import (
	"net/http"

	"github.com/adriancmurray/notICE/internal/handlers"
	"github.com/adriancmurray/notICE/internal/middleware"
	"github.com/adriancmurray/notICE/internal/services"
	"github.com/gin-gonic/gin"
)

// Deps are the process-wide collaborators the routes need, built once in
// main after config and database initialization.
type Deps struct {
	Dispatcher *services.Dispatcher
	Limiter    *services.RateLimiter
	VAPIDKeys  *services.VAPIDKeys
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	reportHandler := handlers.NewReportHandler(deps.Dispatcher)
	subscriptionHandler := handlers.NewSubscriptionHandler(deps.VAPIDKeys)
	regionHandler := handlers.NewRegionHandler()
	adminHandler := handlers.NewAdminHandler()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/reports", middleware.ReportRateLimit(deps.Limiter), reportHandler.Create)
		api.GET("/reports", reportHandler.List)
		api.GET("/reports/:id", reportHandler.Get)
		api.POST("/reports/:id/confirm", reportHandler.Confirm)
		api.POST("/reports/:id/dispute", reportHandler.Dispute)

		api.GET("/region", regionHandler.Get)

		api.GET("/vapid-public-key", subscriptionHandler.VapidPublicKey)
		api.POST("/push/subscribe", subscriptionHandler.Subscribe)
		api.DELETE("/push/subscribe", subscriptionHandler.Unsubscribe)

		api.DELETE("/admin/torch", adminHandler.Torch)
	}
}
