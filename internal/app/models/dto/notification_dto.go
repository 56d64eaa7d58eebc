package dto

import "github.com/yigit/edupath/internal/app/models"

// Notification tabs
const (
	TabAll       = "all"
	TabUnread    = "unread"
	TabImportant = "important"
)

// Notification date ranges
const (
	RangeAll   = "all"
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// NotificationFilter holds the panel filters
type NotificationFilter struct {
	Tab       string `form:"tab" validate:"omitempty,oneof=all unread important"`
	DateRange string `form:"dateRange" validate:"omitempty,oneof=all today week month"`
	Category  string `form:"category" validate:"omitempty,oneof=application academic financial system general"`
}

// NotificationListResponse is the panel content
type NotificationListResponse struct {
	Items       []*models.Notification `json:"items"`
	Total       int                    `json:"total"`
	UnreadCount int                    `json:"unreadCount"`
}

// UnreadCountResponse carries the unread counter
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount" example:"3"`
}

// CreateNotificationRequest lets staff notify a user
type CreateNotificationRequest struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=2000"`
	Category    string `json:"category" validate:"required,oneof=application academic financial system general"`
	IsImportant bool   `json:"isImportant"`
	ActionURL   string `json:"actionUrl,omitempty" validate:"omitempty,max=500"`
}
