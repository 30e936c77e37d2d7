package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/mutation"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

// DeleteFlowController 视图删除确认流程接口
type DeleteFlowController struct {
	svc *service.Services
}

// NewDeleteFlowController 创建删除流程控制器
func NewDeleteFlowController(svc *service.Services) *DeleteFlowController {
	return &DeleteFlowController{svc: svc}
}

// flow 取得当前会话中该视图的删除流程
func (dc *DeleteFlowController) flow(c *gin.Context, action string) (*mutation.DeleteController, bool) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	name := c.Param("view")
	if !dc.svc.HasDelete(name) {
		utils.HandleError(c, utils.CreateNotFoundError(name))
		return nil, false
	}
	// 先鉴权，无权限的请求不创建会话流程
	if !middleware.Authorize(c, viewPermissions[name], action) {
		return nil, false
	}
	flow, ok := dc.svc.Delete(user.ID, name)
	if !ok {
		utils.HandleError(c, utils.CreateNotFoundError(name))
		return nil, false
	}
	return flow, true
}

// GetState 删除流程快照
func (dc *DeleteFlowController) GetState(c *gin.Context) {
	flow, ok := dc.flow(c, "read")
	if !ok {
		return
	}
	utils.SuccessResponse(c, flow.Snapshot(), "")
}

// RequestDelete 选择待删除对象，打开确认
func (dc *DeleteFlowController) RequestDelete(c *gin.Context) {
	flow, ok := dc.flow(c, "delete")
	if !ok {
		return
	}

	var target mutation.Target
	if err := c.ShouldBindJSON(&target); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求数据: "+err.Error()))
		return
	}

	if !flow.RequestDelete(target) {
		printer := utils.Printer(c.GetHeader("Accept-Language"))
		utils.HandleError(c, utils.CreateConflictError(printer.Sprintf(utils.MsgDeletePending)))
		return
	}
	utils.SuccessResponse(c, flow.Snapshot(), "")
}

// ConfirmDelete 确认删除。失败时流程回到待确认，快照中带有错误提示。
func (dc *DeleteFlowController) ConfirmDelete(c *gin.Context) {
	flow, ok := dc.flow(c, "delete")
	if !ok {
		return
	}

	err := flow.Confirm(c.Request.Context())
	printer := utils.Printer(c.GetHeader("Accept-Language"))
	switch {
	case err == nil:
		snapshot := flow.Snapshot()
		message := ""
		if snapshot.Notice != nil {
			message = snapshot.Notice.Message
		}
		utils.SuccessResponse(c, snapshot, message)
	case errors.Is(err, mutation.ErrPending):
		utils.HandleError(c, utils.CreateConflictError(printer.Sprintf(utils.MsgDeletePending)))
	case errors.Is(err, mutation.ErrNoTarget):
		utils.HandleError(c, utils.CreateBadRequestError(printer.Sprintf(utils.MsgNoDeleteTarget)))
	default:
		respondWithSnapshot(c, err, flow.Snapshot())
	}
}

// CancelDelete 关闭确认，删除进行中时拒绝
func (dc *DeleteFlowController) CancelDelete(c *gin.Context) {
	flow, ok := dc.flow(c, "delete")
	if !ok {
		return
	}
	if !flow.Cancel() {
		printer := utils.Printer(c.GetHeader("Accept-Language"))
		utils.HandleError(c, utils.CreateConflictError(printer.Sprintf(utils.MsgDeletePending)))
		return
	}
	utils.SuccessResponse(c, flow.Snapshot(), "")
}

// respondWithSnapshot 后端错误响应附带删除流程快照
func respondWithSnapshot(c *gin.Context, err error, snapshot mutation.Snapshot) {
	status := http.StatusBadGateway
	code := "BACKEND_ERROR"
	var statusErr utils.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.HTTPStatus()
		code = statusErr.Code()
	}
	message := err.Error()
	if snapshot.Notice != nil {
		message = snapshot.Notice.Message
	}
	utils.LogError(err, map[string]interface{}{
		"path":     c.Request.URL.Path,
		"resource": snapshot.Resource,
	}, "删除失败")
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
		"data":    snapshot,
	})
}
