package models

// DeliveryInfo 配送信息（结账表单）
type DeliveryInfo struct {
	FullName    string `json:"fullName" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,min=6"`
	AddressLine string `json:"addressLine" validate:"required"`
	City        string `json:"city" validate:"required"`
	Province    string `json:"province" validate:"required"`
	PostalCode  string `json:"postalCode" validate:"required"`
	Note        string `json:"note,omitempty" validate:"omitempty,max=500"`
}
