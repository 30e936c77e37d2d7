package models

// Owner 宠物主人
type Owner struct {
	ID         string `json:"_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	NationalID string `json:"nationalId,omitempty"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address,omitempty"`
}
