package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the user directory routes
func UserRoutes(r *gin.Engine) {
	users := r.Group("/api/users")
	users.Use(middlewares.AuthMiddleware())
	{
		users.GET("", controllers.GetUsers)
		users.PUT("/:id", controllers.UpdateUser)
	}
}
