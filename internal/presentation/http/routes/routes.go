// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/container"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/presentation/http/handlers"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// Initialize handlers
	dashboardHandlers := handlers.NewDashboardHandlers(container.DashboardService, container.Logger, container.PerfTracker)
	lotHandlers := handlers.NewLotHandlers(container.LotService, container.Logger, container.PerfTracker)
	processHandlers := handlers.NewProcessHandlers(container.ProcessService, container.Logger, container.PerfTracker)
	wipHandlers := handlers.NewWipHandlers(container.WipService, container.Logger, container.PerfTracker)
	printHandlers := handlers.NewPrintHandlers(container.PrintService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	opsHandlers := handlers.NewOpsHandlers(container)
	wsHandlers := handlers.NewWSHandlers(container.WSBridge, container.Logger)
	healthHandlers := handlers.NewHealthHandlers(container)

	// API routes
	api := r.Group("/api/v1")
	{
		// Dashboard endpoints
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardHandlers.GetSummary)
			dashboard.GET("/page", dashboardHandlers.GetPage)
			dashboard.POST("/page/refresh", dashboardHandlers.PostPageRefresh)
			dashboard.GET("/stream", dashboardHandlers.StreamDashboard)
		}

		// Tracking data endpoints
		api.GET("/lots", lotHandlers.GetLots)
		api.GET("/processes/wip", processHandlers.GetWipCounts)
		api.GET("/processes/cycle-times", processHandlers.GetCycleTimes)
		api.GET("/wip/:id", wipHandlers.GetDetail)

		// Label printing
		api.POST("/labels/print", printHandlers.PostPrintLabel)

		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		// Ops endpoints (JWT-guarded)
		ops := api.Group("/ops")
		ops.Use(middleware.OpsAuthMiddleware(container.Logger))
		{
			ops.GET("/cache/stats", opsHandlers.GetCacheStats)
			ops.POST("/cache/invalidate", opsHandlers.PostCacheInvalidate)
			ops.GET("/activity", opsHandlers.GetActivity)
			ops.GET("/logs/stream", opsHandlers.StreamLogs)
			ops.GET("/logs/levels", opsHandlers.GetLogLevels)
			ops.POST("/logs/levels", opsHandlers.SetLogLevel)
		}
	}

	// Websocket toast feed sits outside the API group: CORS middleware does
	// not apply to upgraded connections.
	r.GET("/ws/notifications", wsHandlers.GetNotifications)

	// Liveness
	r.GET("/health", healthHandlers.GetHealth)

	return r
}
