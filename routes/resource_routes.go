package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/controllers"
	"github.com/BerniceZTT/vet_admin/middleware"
)

func RegisterResourceRoutes(router *gin.Engine, d Deps) {
	resources := controllers.NewResourceController(d.Services)

	resourceGroup := router.Group("/api/resources")
	resourceGroup.Use(middleware.AuthMiddleware(), middleware.OperationLoggerMiddleware(d.Store))

	// 创建，可挂在父资源下
	resourceGroup.POST("/:resource", resources.CreateResource)
	resourceGroup.POST("/:resource/:parentId", resources.CreateResource)

	// 更新
	resourceGroup.PUT("/:resource/:id", resources.UpdateResource)

	uploadGroup := router.Group("/api/uploads")
	uploadGroup.Use(middleware.AuthMiddleware(), middleware.OperationLoggerMiddleware(d.Store))

	uploadGroup.POST("/clinic-logo", resources.UploadClinicLogo)
	uploadGroup.POST("/patients/:id/photo", resources.UploadPatientPhoto)
	uploadGroup.POST("/patients/:id/studies", resources.UploadStudy)
}
