package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
	"github.com/minjae-dev/kshop-api/middlewares"
)

func PaymentRoutes(server *gin.Engine) {
	server.POST("/payments/confirm", middlewares.RequireAuth(), controllers.ConfirmPayment)
}
