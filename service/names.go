package service

// 视图名（URL 中的 {view}）
const (
	ViewProducts       = "products"
	ViewStock          = "stock"
	ViewMovements      = "movements"
	ViewLabExams       = "lab-exams"
	ViewSales          = "sales"
	ViewPatients       = "patients"
	ViewAppointments   = "appointments"
	ViewOwners         = "owners"
	ViewStaff          = "staff"
	ViewGrooming       = "grooming"
	ViewPaymentMethods = "payment-methods"
)

// 缓存资源名。读取同一后端集合的视图共享同一资源名，失效时一并刷新。
const (
	ResourceProducts       = "products"
	ResourceMovements      = "movements"
	ResourceLabExams       = "lab-exams"
	ResourceSales          = "sales"
	ResourcePatients       = "patients"
	ResourceAppointments   = "appointments"
	ResourceOwners         = "owners"
	ResourceStaff          = "staff"
	ResourceGrooming       = "grooming"
	ResourcePaymentMethods = "payment-methods"
	ResourceClinic         = "clinic"
)

// related 写操作成功后需要一并失效的资源
var related = map[string][]string{
	// 产品变化影响库存变动列表中的产品名
	ResourceProducts: {ResourceMovements},
	// 库存变动会改变产品库存
	ResourceMovements: {ResourceProducts},
	// 患宠名称出现在预约、检验、美容记录中
	ResourcePatients: {ResourceAppointments, ResourceLabExams, ResourceGrooming},
	ResourceOwners:   {ResourcePatients, ResourceSales},
}
