package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
	"github.com/minjae-dev/kshop-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddCartItem)
		cart.PATCH("/:id", controllers.UpdateCartItem)
		cart.DELETE("/:id", controllers.DeleteCartItem)
		cart.DELETE("", controllers.ClearCart)
	}
}
