package models

// 库存变动类型
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// Movement 库存变动记录
type Movement struct {
	ID          string `json:"_id" validate:"required"`
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName"`
	Type        string `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
	Date        Date   `json:"date"`
	CreatedBy   string `json:"createdBy,omitempty"`
}

// MovementQuery 库存变动服务端筛选参数
type MovementQuery struct {
	Page      int
	Limit     int
	Type      string
	ProductID string
	DateFrom  string
	DateTo    string
}

// Values 转换为查询参数（空值不发送，"all" 视为不筛选）
func (q MovementQuery) Values() map[string]string {
	values := map[string]string{}
	if q.Type != "" && q.Type != "all" {
		values["type"] = q.Type
	}
	if q.ProductID != "" {
		values["productId"] = q.ProductID
	}
	if q.DateFrom != "" {
		values["dateFrom"] = q.DateFrom
	}
	if q.DateTo != "" {
		values["dateTo"] = q.DateTo
	}
	return values
}
