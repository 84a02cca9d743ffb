package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
	"github.com/minjae-dev/kshop-api/middlewares"
)

func WishlistRoutes(server *gin.Engine) {
	wishlist := server.Group("/wishlist", middlewares.RequireAuth())
	{
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddWishlistItem)
		wishlist.DELETE("/:id", controllers.DeleteWishlistItem)
	}
}
