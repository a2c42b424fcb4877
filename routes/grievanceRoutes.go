package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// GrievanceRoutes sets up the grievance routes. Verification, assignment
// and deletion are admin-only.
func GrievanceRoutes(r *gin.Engine) {
	grievance := r.Group("/api/grievances")
	grievance.Use(middlewares.AuthMiddleware())
	{
		grievance.POST("", middlewares.GrievanceRateLimiter(5), controllers.SubmitGrievance)
		grievance.GET("", controllers.GetAllGrievances)
		grievance.GET("/:id", controllers.GetGrievance)
		grievance.GET("/citizen/:userId", controllers.GetCitizenGrievances)
		grievance.GET("/citizen/:userId/stats", controllers.GetCitizenStats)
		grievance.GET("/assigned/:officerId", controllers.GetAssignedGrievances)
		grievance.GET("/status/:status", controllers.GetGrievancesByStatus)
		grievance.GET("/category/:category", controllers.GetGrievancesByCategory)
		grievance.GET("/pending-verification", controllers.GetPendingVerification)
		grievance.PATCH("/:id/verify", middlewares.RequireRole("ADMIN"), controllers.VerifyGrievance)
		grievance.PATCH("/:id/assign", middlewares.RequireRole("ADMIN"), controllers.AssignGrievance)
		grievance.PUT("/:id/status", controllers.UpdateGrievanceStatus)
		grievance.DELETE("/:id", middlewares.RequireRole("ADMIN"), controllers.DeleteGrievance)
	}

	// Images render in <img> tags, which cannot attach a bearer token.
	r.GET("/api/grievances/image/:filename", controllers.GetGrievanceImage)
}
