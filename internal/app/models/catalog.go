package models

import "time"

// DegreeLevel is the level of a study program
type DegreeLevel string

const (
	DegreeBachelor DegreeLevel = "bachelor"
	DegreeMaster   DegreeLevel = "master"
	DegreePhD      DegreeLevel = "phd"
	DegreeDiploma  DegreeLevel = "diploma"
	DegreeLanguage DegreeLevel = "language"
)

// IsValid reports whether d is a known degree level
func (d DegreeLevel) IsValid() bool {
	switch d {
	case DegreeBachelor, DegreeMaster, DegreePhD, DegreeDiploma, DegreeLanguage:
		return true
	}
	return false
}

// University is a partner institution
type University struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Name        string    `json:"name" db:"name" example:"Istanbul University"`
	Country     string    `json:"country" db:"country" example:"Turkey"`
	City        string    `json:"city" db:"city" example:"Istanbul"`
	Website     string    `json:"website,omitempty" db:"website" example:"https://www.istanbul.edu.tr"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Program is a study program offered by a university
type Program struct {
	ID             int64       `json:"id" db:"id" example:"10"`
	UniversityID   int64       `json:"universityId" db:"university_id" example:"1"`
	UniversityName string      `json:"universityName,omitempty"` // joined
	Country        string      `json:"country,omitempty"`        // joined
	Name           string      `json:"name" db:"name" example:"Computer Engineering"`
	DegreeLevel    DegreeLevel `json:"degreeLevel" db:"degree_level" example:"bachelor"`
	Language       string      `json:"language" db:"language" example:"English"`
	DurationYears  int         `json:"durationYears" db:"duration_years" example:"4"`
	TuitionFee     float64     `json:"tuitionFee" db:"tuition_fee" example:"4500"`
	Currency       string      `json:"currency" db:"currency" example:"USD"`
	Description    string      `json:"description,omitempty" db:"description"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}
