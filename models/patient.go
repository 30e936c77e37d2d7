package models

// 物种
const (
	SpeciesCanine = "canino"
	SpeciesFeline = "felino"
)

// Patient 患宠
type Patient struct {
	ID        string `json:"_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Species   string `json:"species" validate:"required"`
	Breed     string `json:"breed,omitempty"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	BirthDate Date   `json:"birthDate"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	CreatedAt Date   `json:"createdAt"`
}

// MedicalStudy 医学影像/报告（PDF）
type MedicalStudy struct {
	ID        string `json:"_id" validate:"required"`
	PatientID string `json:"patientId" validate:"required"`
	Title     string `json:"title"`
	FileURL   string `json:"fileUrl" validate:"required"`
	CreatedAt Date   `json:"createdAt"`
}
