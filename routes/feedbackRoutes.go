package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// FeedbackRoutes sets up the feedback routes
func FeedbackRoutes(r *gin.Engine) {
	feedback := r.Group("/api/feedback")
	feedback.Use(middlewares.AuthMiddleware())
	{
		feedback.POST("", controllers.SubmitFeedback)
		feedback.POST("/reopen/:id", controllers.ReopenComplaint)
		feedback.GET("/grievance/:id", controllers.GetFeedbackByGrievance)
		feedback.GET("/user/:userId", controllers.GetFeedbackByUser)
		feedback.GET("/admin/stats", middlewares.RequireRole("ADMIN"), controllers.GetAdminFeedbackStats)
		feedback.DELETE("/:id", middlewares.RequireRole("ADMIN"), controllers.DeleteFeedback)
	}
}
