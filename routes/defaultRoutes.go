package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/minjae-dev/kshop-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
