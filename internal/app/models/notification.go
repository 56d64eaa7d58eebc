package models

import "time"

// NotificationCategory groups notifications in the panel
type NotificationCategory string

const (
	CategoryApplication NotificationCategory = "application"
	CategoryAcademic    NotificationCategory = "academic"
	CategoryFinancial   NotificationCategory = "financial"
	CategorySystem      NotificationCategory = "system"
	CategoryGeneral     NotificationCategory = "general"
)

// IsValid reports whether c is a known category
func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryApplication, CategoryAcademic, CategoryFinancial, CategorySystem, CategoryGeneral:
		return true
	}
	return false
}

// Notification is an entry of a user's notification center
type Notification struct {
	ID          int64                `json:"id" db:"id" example:"1"`
	UserID      int64                `json:"userId" db:"user_id" example:"5"`
	Title       string               `json:"title" db:"title"`
	Message     string               `json:"message" db:"message"`
	Category    NotificationCategory `json:"category" db:"category" example:"application"`
	IsRead      bool                 `json:"isRead" db:"is_read"`
	IsImportant bool                 `json:"isImportant" db:"is_important"`
	ActionURL   string               `json:"actionUrl,omitempty" db:"action_url"`
	CreatedAt   time.Time            `json:"createdAt" db:"created_at"`
}
