package models

// Clinic 当前账号所属诊所
type Clinic struct {
	ID           string  `json:"_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Address      string  `json:"address,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	LogoURL      string  `json:"logoUrl,omitempty"`
	ExchangeRate float64 `json:"exchangeRate,omitempty"`
}
