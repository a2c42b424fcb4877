package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes sets up the analytics dashboard routes
func AnalyticsRoutes(r *gin.Engine) {
	analytics := r.Group("/api/analytics")
	analytics.Use(middlewares.AuthMiddleware())
	{
		analytics.GET("/dashboard", controllers.GetDashboardStats)
		analytics.GET("/workload", controllers.GetOfficerWorkload)
	}
}
