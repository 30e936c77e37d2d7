package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/controllers"
	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/models"
)

func RegisterSystemRoutes(router *gin.Engine, d Deps) {
	system := controllers.NewSystemController(d.Store, d.Cache, d.Services.Deps.Sessions)

	// 健康检查路由
	router.GET("/api/health", system.Health)

	// 数据库状态检查路由
	router.GET("/api/db-status", system.DBStatus)

	// 缓存状态
	router.GET("/api/cache-status", system.CacheStatus)

	// 操作日志（仅管理员）
	logGroup := router.Group("/api/operation-logs")
	logGroup.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleADMIN))
	logGroup.GET("", system.GetOperationLogs)
}
