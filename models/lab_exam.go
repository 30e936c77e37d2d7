package models

// 检验状态
const (
	LabExamPending    = "pending"
	LabExamInProgress = "in_progress"
	LabExamCompleted  = "completed"
)

// LabExam 实验室检验
type LabExam struct {
	ID          string `json:"_id" validate:"required"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	ExamType    string `json:"examType" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Date        Date   `json:"date"`
	Result      string `json:"result,omitempty"`
	Cost        Money  `json:"cost"`
}
