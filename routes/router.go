package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/service"
)

// Deps 路由依赖
type Deps struct {
	Services *service.Services
	Cache    *cache.Cache
	Store    repository.OperationLogStore
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, d Deps) {
	// 健康检查、存储与缓存状态
	RegisterSystemRoutes(router, d)

	// 列表视图与删除流程
	RegisterViewRoutes(router, d)

	// 创建/更新代理与文件上传
	RegisterResourceRoutes(router, d)
}
