package dto

import "github.com/yigit/edupath/internal/app/models"

// Submission outcomes
const (
	OutcomeSuccess        = "success"
	OutcomePartialSuccess = "partial_success"
)

// SubmitApplicationRequest submits an application without going through the wizard
type SubmitApplicationRequest struct {
	FormData     map[string]interface{} `json:"formData" validate:"required"`
	UniversityID *int64                 `json:"universityId,omitempty" validate:"omitempty,gt=0"`
	ProgramID    *int64                 `json:"programId,omitempty" validate:"omitempty,gt=0"`
	AcademicYear string                 `json:"academicYear,omitempty" validate:"omitempty,max=20"`
	Semester     string                 `json:"semester,omitempty" validate:"omitempty,oneof=fall spring summer"`
	PinCode      string                 `json:"pinCode,omitempty" validate:"omitempty,max=20"`
}

// SubmissionResponse is the result of a submission
type SubmissionResponse struct {
	Application *models.Application `json:"application"`
	Outcome     string              `json:"outcome" example:"success" enums:"success,partial_success"`
	Message     string              `json:"message"`
}

// UpdateStatusRequest sets an application status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending review documents conditional approved rejected paid registered"`
	Note   string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// UpdateDocumentRequest sets the status of a checklist document
type UpdateDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=required uploaded approved"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
}

// ApplicationFilter holds admin list filters
type ApplicationFilter struct {
	Status    string `form:"status"`
	Search    string `form:"search"`
	StudentID int64  `form:"studentId"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}
