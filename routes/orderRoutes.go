package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
	"github.com/minjae-dev/kshop-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	orders := server.Group("/orders", middlewares.RequireAuth())
	{
		orders.POST("", controllers.CreateOrder)
		orders.GET("", controllers.GetMyOrders)
		orders.GET("/:id", controllers.GetOrderByID)
		orders.PATCH("/:id", controllers.UpdateOrder)
	}

	admin := server.Group("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.GET("/undelivered-count", controllers.GetUndeliveredOrders)
		admin.PATCH("/:orderId", controllers.UpdateOrderStatus)
		admin.DELETE("/:orderId", controllers.DeleteOrder)
	}
}
