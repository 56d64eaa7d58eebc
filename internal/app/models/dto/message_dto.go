package dto

import "github.com/yigit/edupath/internal/app/models"

// SendMessageRequest posts a message to a conversation
type SendMessageRequest struct {
	Text        string              `json:"text" validate:"required_without=Attachments,max=2000"`
	Attachments []models.Attachment `json:"attachments,omitempty" validate:"omitempty,max=5,dive"`
}

// MessageQuery pages through a conversation, newest first
type MessageQuery struct {
	Before int64 `form:"before"`
	Limit  int   `form:"limit"`
}
