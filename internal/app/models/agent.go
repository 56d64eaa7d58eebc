package models

import "time"

// Agent is a partner recruiting agent
type Agent struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	Name           string    `json:"name" db:"name" example:"Gulf Education Partners"`
	Email          string    `json:"email" db:"email" example:"agent@example.com"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	Country        string    `json:"country" db:"country" example:"Jordan"`
	CommissionRate float64   `json:"commissionRate" db:"commission_rate" example:"10"`
	IsActive       bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
