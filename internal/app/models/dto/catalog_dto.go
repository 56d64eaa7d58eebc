package dto

// UniversityRequest creates or updates a university
type UniversityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Country     string `json:"country" validate:"required,notblank"`
	City        string `json:"city" validate:"required,notblank"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ProgramRequest creates or updates a program
type ProgramRequest struct {
	UniversityID  int64   `json:"universityId" validate:"required,gt=0"`
	Name          string  `json:"name" validate:"required,min=2,max=150"`
	DegreeLevel   string  `json:"degreeLevel" validate:"required,oneof=bachelor master phd diploma language"`
	Language      string  `json:"language" validate:"required,notblank"`
	DurationYears int     `json:"durationYears" validate:"required,gte=1,lte=8"`
	TuitionFee    float64 `json:"tuitionFee" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UniversityFilter filters the university list
type UniversityFilter struct {
	Country string `form:"country"`
	Search  string `form:"search"`
}

// ProgramFilter filters the program list
type ProgramFilter struct {
	Country      string  `form:"country"`
	DegreeLevel  string  `form:"degreeLevel"`
	Language     string  `form:"language"`
	UniversityID int64   `form:"universityId"`
	MaxFee       float64 `form:"maxFee"`
	Search       string  `form:"search"`
	Page         int     `form:"page"`
	Size         int     `form:"size"`
}
