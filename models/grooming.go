package models

// GroomingService 美容服务
type GroomingService struct {
	ID          string `json:"_id" validate:"required"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	Service     string `json:"service" validate:"required"`
	Date        Date   `json:"date"`
	Price       Money  `json:"price"`
	Status      string `json:"status"`
}
