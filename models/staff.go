package models

// Staff 员工
type Staff struct {
	ID     string   `json:"_id" validate:"required"`
	Name   string   `json:"name" validate:"required"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Active bool     `json:"active"`
}

// PaymentMethod 付款方式
type PaymentMethod struct {
	ID       string   `json:"_id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Currency Currency `json:"currency" validate:"omitempty,oneof=USD Bs"`
	Active   bool     `json:"active"`
}
