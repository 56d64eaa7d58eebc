package dto

import "github.com/yigit/edupath/internal/app/models"

// StudentFilter filters the student list
type StudentFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

// StudentDetail is a student with their applications
type StudentDetail struct {
	Student      *models.User          `json:"student"`
	Applications []*models.Application `json:"applications"`
}
