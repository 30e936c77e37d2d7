package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

// 请求体上限
const maxMutationBody = 1 << 20

// ResourceController 创建/更新代理与文件上传
type ResourceController struct {
	svc *service.Services
}

// NewResourceController 创建资源控制器
func NewResourceController(svc *service.Services) *ResourceController {
	return &ResourceController{svc: svc}
}

// CreateResource 创建记录，可带父资源 id
func (rc *ResourceController) CreateResource(c *gin.Context) {
	rc.mutate(c, http.MethodPost, "create", c.Param("parentId"))
}

// UpdateResource 更新记录
func (rc *ResourceController) UpdateResource(c *gin.Context) {
	rc.mutate(c, http.MethodPut, "update", c.Param("id"))
}

func (rc *ResourceController) mutate(c *gin.Context, method, action, id string) {
	resource := c.Param("resource")
	if _, ok := client.MutablePaths[resource]; !ok {
		utils.HandleError(c, utils.CreateNotFoundError(resource))
		return
	}
	if !middleware.Authorize(c, resource, action) {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMutationBody+1))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("读取请求体失败"))
		return
	}
	if len(raw) > maxMutationBody || !json.Valid(raw) {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求数据"))
		return
	}

	result, notice, err := rc.svc.Mutate(c.Request.Context(), service.MutationRequest{
		Resource: resource,
		Method:   method,
		ID:       id,
		Body:     raw,
		Label:    c.Query("label"),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if method == http.MethodPost {
		status = http.StatusCreated
	}
	utils.SuccessResponse(c, result.Body, notice.Message, status)
}

// UploadClinicLogo 上传诊所 logo
func (rc *ResourceController) UploadClinicLogo(c *gin.Context) {
	rc.upload(c, service.UploadRequest{Kind: service.UploadClinicLogo}, "clinics", "update", "logo")
}

// UploadPatientPhoto 上传患宠照片
func (rc *ResourceController) UploadPatientPhoto(c *gin.Context) {
	rc.upload(c, service.UploadRequest{
		Kind:      service.UploadPatientPhoto,
		PatientID: c.Param("id"),
	}, "patients", "update", "photo")
}

// UploadStudy 上传患宠检查报告（PDF）
func (rc *ResourceController) UploadStudy(c *gin.Context) {
	rc.upload(c, service.UploadRequest{
		Kind:      service.UploadStudy,
		PatientID: c.Param("id"),
		Title:     c.PostForm("title"),
	}, "studies", "create", "file")
}

func (rc *ResourceController) upload(c *gin.Context, req service.UploadRequest, resource, action, field string) {
	if !middleware.Authorize(c, resource, action) {
		return
	}

	header, err := c.FormFile(field)
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("缺少上传文件: "+field))
		return
	}
	// 检查文件大小限制（20MB）
	if header.Size > client.MaxUploadSize {
		utils.HandleError(c, utils.CreateBadRequestError("文件大小超出限制，最大支持 20MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.HandleError(c, utils.NewAppError("读取上传文件失败", http.StatusBadRequest, err))
		return
	}
	defer file.Close()

	req.File = client.File{
		Field:       field,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}

	result, notice, err := rc.svc.Upload(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result.Body, notice.Message, http.StatusCreated)
}
