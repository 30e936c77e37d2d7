package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

// SystemController 健康检查、存储与缓存状态、操作日志
type SystemController struct {
	store    repository.OperationLogStore
	cache    *cache.Cache
	sessions *service.Sessions
	started  time.Time
}

// NewSystemController 创建系统控制器
func NewSystemController(store repository.OperationLogStore, qc *cache.Cache, sessions *service.Sessions) *SystemController {
	return &SystemController{store: store, cache: qc, sessions: sessions, started: time.Now()}
}

// Health 健康检查
func (sc *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(sc.started).Round(time.Second).String(),
	})
}

// DBStatus 操作日志存储状态
func (sc *SystemController) DBStatus(c *gin.Context) {
	status, err := sc.store.Status(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, "获取数据库状态失败: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, status)
}

// CacheStatus 查询缓存统计与条目
func (sc *SystemController) CacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":    sc.cache.Stats(),
		"entries":  sc.cache.Entries(),
		"sessions": sc.sessions.Len(),
	})
}

// GetOperationLogs 操作日志（仅管理员）
func (sc *SystemController) GetOperationLogs(c *gin.Context) {
	query := repository.OperationLogQuery{
		Resource:   c.Query("resource"),
		OperatorID: c.Query("operatorId"),
		Page:       utils.QueryInt(c, "page", 1),
		Limit:      utils.QueryInt(c, "limit", 20),
	}.Normalize()

	logs, total, err := sc.store.List(c.Request.Context(), query)
	if err != nil {
		utils.HandleError(c, utils.NewAppError("查询操作日志失败", http.StatusInternalServerError, err))
		return
	}
	utils.PaginatedResponse(c, logs, total, int64(query.Page), int64(query.Limit))
}
