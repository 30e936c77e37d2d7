package models

// 预约状态
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment 预约
type Appointment struct {
	ID          string `json:"_id" validate:"required"`
	PatientID   string `json:"patientId" validate:"required"`
	PatientName string `json:"patientName"`
	VetName     string `json:"vetName"`
	Date        Date   `json:"date"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}
