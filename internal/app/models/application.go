package models

import (
	"strings"
	"time"
)

// ApplicationStatus is the admissions status of an application.
// Staff may set any value; there is no transition graph.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReview      ApplicationStatus = "review"
	StatusDocuments   ApplicationStatus = "documents"
	StatusConditional ApplicationStatus = "conditional"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusPaid        ApplicationStatus = "paid"
	StatusRegistered  ApplicationStatus = "registered"
)

// ApplicationStatuses lists every status in pipeline order
var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReview, StatusDocuments, StatusConditional,
	StatusApproved, StatusRejected, StatusPaid, StatusRegistered,
}

// IsValid reports whether s is a known status
func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsAccepted reports whether s counts as an acceptance in analytics
func (s ApplicationStatus) IsAccepted() bool {
	return s == StatusApproved || s == StatusPaid || s == StatusRegistered
}

// DocumentStatus is the state of a checklist entry
type DocumentStatus string

const (
	DocumentRequired DocumentStatus = "required"
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentApproved DocumentStatus = "approved"
)

// IsValid reports whether s is a known document status
func (s DocumentStatus) IsValid() bool {
	return s == DocumentRequired || s == DocumentUploaded || s == DocumentApproved
}

// ApplicationDocument is one entry of the document checklist
type ApplicationDocument struct {
	Name   string         `json:"name" example:"passport"`
	Status DocumentStatus `json:"status" example:"uploaded"`
	URL    string         `json:"url,omitempty"`
}

// ChecklistItem maps a checklist document to the form-data key holding its file URL
type ChecklistItem struct {
	Name    string
	FormKey string
}

// Checklist is the fixed document checklist of every new application
var Checklist = []ChecklistItem{
	{Name: "passport", FormKey: "passportUrl"},
	{Name: "photo", FormKey: "photoUrl"},
	{Name: "diploma", FormKey: "diplomaUrl"},
	{Name: "transcript", FormKey: "transcriptUrl"},
	{Name: "language_certificate", FormKey: "languageCertificateUrl"},
}

// NewChecklist builds the checklist, marking entries whose URL is present in formData as uploaded
func NewChecklist(formData map[string]interface{}) []ApplicationDocument {
	docs := make([]ApplicationDocument, 0, len(Checklist))
	for _, item := range Checklist {
		doc := ApplicationDocument{Name: item.Name, Status: DocumentRequired}
		if url, ok := formData[item.FormKey].(string); ok && strings.TrimSpace(url) != "" {
			doc.Status = DocumentUploaded
			doc.URL = url
		}
		docs = append(docs, doc)
	}
	return docs
}

// Application is a submitted application record.
// Records live in the student list and the admin list of the key-value store.
type Application struct {
	ID              string                 `json:"id" example:"APP-20250101-0042"`
	StudentID       int64                  `json:"studentId" example:"5"`
	StudentName     string                 `json:"studentName"`
	StudentEmail    string                 `json:"studentEmail"`
	UniversityID    *int64                 `json:"universityId,omitempty"`
	UniversityName  string                 `json:"universityName,omitempty"`
	ProgramID       *int64                 `json:"programId,omitempty"`
	ProgramName     string                 `json:"programName,omitempty"`
	Country         string                 `json:"country,omitempty"`
	DegreeLevel     DegreeLevel            `json:"degreeLevel,omitempty"`
	Status          ApplicationStatus      `json:"status" example:"pending"`
	StatusNote      string                 `json:"statusNote,omitempty"`
	SubmittedAt     time.Time              `json:"submittedAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	Documents       []ApplicationDocument  `json:"documents"`
	AcademicYear    string                 `json:"academicYear,omitempty" example:"2025-2026"`
	Semester        string                 `json:"semester,omitempty" example:"fall"`
	PinCode         string                 `json:"pinCode,omitempty"`
	FormData        map[string]interface{} `json:"formData,omitempty"`
	RemoteSynced    bool                   `json:"remoteSynced"`
	RemoteReference string                 `json:"remoteReference,omitempty"`
}

// Document returns the checklist entry with the given name
func (a *Application) Document(name string) (*ApplicationDocument, bool) {
	for i := range a.Documents {
		if a.Documents[i].Name == name {
			return &a.Documents[i], true
		}
	}
	return nil, false
}
