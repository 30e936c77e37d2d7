package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/controllers"
	"github.com/BerniceZTT/vet_admin/middleware"
)

func RegisterViewRoutes(router *gin.Engine, d Deps) {
	views := controllers.NewViewController(d.Services)
	deletes := controllers.NewDeleteFlowController(d.Services)

	viewGroup := router.Group("/api/views")
	viewGroup.Use(middleware.AuthMiddleware(), middleware.OperationLoggerMiddleware(d.Store))

	// 可用视图
	viewGroup.GET("", views.ListViews)

	// 读取视图（含 clinic）
	viewGroup.GET("/:view", views.GetView)

	// 删除确认流程
	viewGroup.GET("/:view/delete", deletes.GetState)
	viewGroup.POST("/:view/delete", deletes.RequestDelete)
	viewGroup.POST("/:view/delete/confirm", deletes.ConfirmDelete)
	viewGroup.POST("/:view/delete/cancel", deletes.CancelDelete)
}
