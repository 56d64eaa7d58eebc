package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"student@example.com"`
	Password    string     `json:"-" db:"password"` // bcrypt hash
	FirstName   string     `json:"firstName" db:"first_name" example:"Ahmed"`
	LastName    string     `json:"lastName" db:"last_name" example:"Hassan"`
	Phone       string     `json:"phone,omitempty" db:"phone" example:"+905551112233"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"STUDENT"`
	Language    string     `json:"language" db:"language" example:"ar"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "first last"
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
