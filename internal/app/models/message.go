package models

import "time"

// SenderType tells who wrote a message
type SenderType string

const (
	SenderStudent SenderType = "student"
	SenderAdmin   SenderType = "admin"
)

// Attachment is a file linked to a message
type Attachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Message belongs to the conversation between one student and the admissions team.
// ConversationID is the student's user ID.
type Message struct {
	ID             int64        `json:"id" db:"id" example:"1"`
	ConversationID int64        `json:"conversationId" db:"conversation_id" example:"5"`
	SenderID       int64        `json:"senderId" db:"sender_id" example:"5"`
	SenderType     SenderType   `json:"senderType" db:"sender_type" example:"student"`
	Text           string       `json:"text" db:"text"`
	IsRead         bool         `json:"isRead" db:"is_read"`
	Attachments    []Attachment `json:"attachments,omitempty" db:"attachments"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
}

// Conversation summarizes a student's thread for the admin inbox
type Conversation struct {
	StudentID   int64    `json:"studentId"`
	StudentName string   `json:"studentName"`
	Email       string   `json:"email"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int      `json:"unreadCount"`
}
