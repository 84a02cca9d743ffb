package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
	"github.com/minjae-dev/kshop-api/middlewares"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		account := auth.Group("", middlewares.RequireAuth())
		{
			account.GET("/me", controllers.GetMe)
			account.PUT("/update", controllers.UpdateAccount)
			account.POST("/verify-password", controllers.VerifyPassword)
			account.DELETE("/delete-account", controllers.DeleteAccount)
		}
	}
}
