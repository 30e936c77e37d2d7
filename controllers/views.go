package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/listing"
	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

// clinicView 诊所视图名，不走列表流程
const clinicView = "clinic"

// viewPermissions 视图对应的权限资源
var viewPermissions = map[string]string{
	service.ViewProducts:       "products",
	service.ViewStock:          "products",
	service.ViewMovements:      "products",
	service.ViewLabExams:       "lab-exams",
	service.ViewSales:          "sales",
	service.ViewPatients:       "patients",
	service.ViewAppointments:   "appointments",
	service.ViewOwners:         "owners",
	service.ViewStaff:          "staff",
	service.ViewGrooming:       "grooming",
	service.ViewPaymentMethods: "payment-methods",
}

// ViewController 列表视图接口
type ViewController struct {
	svc *service.Services
}

// NewViewController 创建视图控制器
func NewViewController(svc *service.Services) *ViewController {
	return &ViewController{svc: svc}
}

// ListViews 列出可用视图
func (vc *ViewController) ListViews(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"views": vc.svc.ViewNames()}, "")
}

// GetView 读取视图：筛选、统计、分页后的当前页
func (vc *ViewController) GetView(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return
	}

	name := c.Param("view")
	if name == clinicView {
		vc.getClinic(c)
		return
	}

	view, ok := vc.svc.View(name)
	if !ok {
		utils.HandleError(c, utils.CreateNotFoundError(name))
		return
	}
	if !middleware.Authorize(c, viewPermissions[name], "read") {
		return
	}

	query := parseViewQuery(c)
	utils.Logger.Debug().
		Str("view", name).
		Str("user", user.Username).
		Interface("filters", query.Filters).
		Int("page", query.Page).
		Msg("视图请求")

	result, err := view.Load(c.Request.Context(), user.ID, query)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result, "")
}

// getClinic 当前诊所，尚未配置时 data 为 null
func (vc *ViewController) getClinic(c *gin.Context) {
	if !middleware.Authorize(c, "clinics", "read") {
		return
	}
	clinic, err := vc.svc.Clinic.Mine(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if clinic == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": nil})
		return
	}
	utils.SuccessResponse(c, clinic, "")
}

// parseViewQuery 解析查询参数。没有任何筛选参数时视为中性筛选。
// page/limit 缺省为 0，表示沿用会话中的当前值。
func parseViewQuery(c *gin.Context) service.Query {
	convert, _ := strconv.ParseBool(c.Query("convert"))
	return service.Query{
		Filters: listing.FilterState{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Status:   c.Query("status"),
			DateFrom: c.Query("dateFrom"),
			DateTo:   c.Query("dateTo"),
		}.Normalize(),
		Page:    utils.QueryInt(c, "page", 0),
		Limit:   utils.QueryInt(c, "limit", 0),
		Convert: convert,
	}
}
