package client

import "github.com/BerniceZTT/vet_admin/models"

// 后端资源
var (
	Products       = Resource[models.Product]{Path: "products", Plural: "products", Singular: "product"}
	Movements      = Resource[models.Movement]{Path: "inventory/movements", Plural: "movements", Singular: "movement"}
	LabExams       = Resource[models.LabExam]{Path: "lab-exams", Plural: "labExams", Singular: "labExam"}
	Sales          = Resource[models.Sale]{Path: "sales", Plural: "sales", Singular: "sale"}
	Owners         = Resource[models.Owner]{Path: "owners", Plural: "owners", Singular: "owner"}
	Patients       = Resource[models.Patient]{Path: "patients", Plural: "patients", Singular: "patient"}
	Appointments   = Resource[models.Appointment]{Path: "appointments", Plural: "appointments", Singular: "appointment"}
	Grooming       = Resource[models.GroomingService]{Path: "grooming", Plural: "services", Singular: "service"}
	Staff          = Resource[models.Staff]{Path: "staff", Plural: "staff", Singular: "member"}
	PaymentMethods = Resource[models.PaymentMethod]{Path: "payment-methods", Plural: "paymentMethods", Singular: "paymentMethod"}
	Clinics        = Resource[models.Clinic]{Path: "clinics", Plural: "clinics", Singular: "clinic"}
	Studies        = Resource[models.MedicalStudy]{Path: "studies", Plural: "studies", Singular: "study"}
)

// MutablePaths 可通过网关代理创建/更新的资源路径
var MutablePaths = map[string]string{
	"products":        Products.Path,
	"movements":       Movements.Path,
	"lab-exams":       LabExams.Path,
	"sales":           Sales.Path,
	"owners":          Owners.Path,
	"patients":        Patients.Path,
	"appointments":    Appointments.Path,
	"grooming":        Grooming.Path,
	"staff":           Staff.Path,
	"payment-methods": PaymentMethods.Path,
	"clinics":         Clinics.Path,
}
