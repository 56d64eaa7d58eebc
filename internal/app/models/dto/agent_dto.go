package dto

// AgentRequest creates or updates an agent
type AgentRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=150"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone,omitempty" validate:"omitempty,phone"`
	Country        string  `json:"country" validate:"required,notblank"`
	CommissionRate float64 `json:"commissionRate" validate:"gte=0,lte=100"`
	IsActive       *bool   `json:"isActive,omitempty"`
}
