package server

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, schoolService SchoolServicePort, logService LogServicePort) {
	controller := &SchoolController{Service: schoolService, LogService: logService}

	r.GET("/health", controller.Health)

	group := r.Group("/colegios")
	{
		group.GET("", controller.List)
		group.GET("/:id", controller.Get)
		group.POST("", controller.Create)
		group.PATCH("/:id", controller.UpdatePartial)
		group.DELETE("/:id", controller.Delete)
	}
}
