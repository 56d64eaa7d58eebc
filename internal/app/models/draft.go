package models

import "time"

// Wizard steps
const (
	StepPersonal    = 1
	StepDocuments   = 2
	StepEducation   = 3
	StepPreferences = 4
	StepReview      = 5
)

// PersonalInfo is step 1 of the wizard
type PersonalInfo struct {
	FirstName      string `json:"firstName" validate:"required,min=2,max=50"`
	LastName       string `json:"lastName" validate:"required,min=2,max=50"`
	FatherName     string `json:"fatherName,omitempty" validate:"omitempty,max=50"`
	MotherName     string `json:"motherName,omitempty" validate:"omitempty,max=50"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,phone"`
	BirthDate      string `json:"birthDate" validate:"required,date"`
	Gender         string `json:"gender" validate:"required,oneof=male female"`
	Nationality    string `json:"nationality" validate:"required,notblank"`
	PassportNumber string `json:"passportNumber" validate:"required,min=5,max=20"`
	Address        string `json:"address,omitempty" validate:"omitempty,max=255"`
	PhotoURL       string `json:"photoUrl,omitempty"`
}

// DocumentsSection is step 2 of the wizard
type DocumentsSection struct {
	PassportURL            string       `json:"passportUrl,omitempty"`
	DiplomaURL             string       `json:"diplomaUrl,omitempty"`
	TranscriptURL          string       `json:"transcriptUrl,omitempty"`
	LanguageCertificateURL string       `json:"languageCertificateUrl,omitempty"`
	OtherDocuments         []Attachment `json:"otherDocuments,omitempty" validate:"omitempty,max=10"`
}

// EducationSection is step 3 of the wizard
type EducationSection struct {
	EducationLevel string  `json:"educationLevel" validate:"required,oneof=high_school bachelor master"`
	SchoolName     string  `json:"schoolName" validate:"required,min=2,max=150"`
	FieldOfStudy   string  `json:"fieldOfStudy,omitempty" validate:"omitempty,max=100"`
	Country        string  `json:"schoolCountry" validate:"required,notblank"`
	GraduationYear int     `json:"graduationYear" validate:"required,gte=1950,lte=2100"`
	GPA            float64 `json:"gpa" validate:"required,gt=0,lte=100"`
}

// ProgramPreferences is step 4 of the wizard
type ProgramPreferences struct {
	UniversityID int64  `json:"universityId,omitempty" validate:"omitempty,gt=0"`
	ProgramID    int64  `json:"programId" validate:"required,gt=0"`
	AcademicYear string `json:"academicYear" validate:"required,max=20"`
	Semester     string `json:"semester" validate:"required,oneof=fall spring summer"`
	PinCode      string `json:"pinCode,omitempty" validate:"omitempty,max=20"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// WizardDraft is the saved state of the application wizard
type WizardDraft struct {
	ID          string             `json:"id"`
	StudentID   int64              `json:"studentId"`
	CurrentStep int                `json:"currentStep" example:"1"`
	Personal    PersonalInfo       `json:"personal"`
	Documents   DocumentsSection   `json:"documents"`
	Education   EducationSection   `json:"education"`
	Preferences ProgramPreferences `json:"preferences"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
