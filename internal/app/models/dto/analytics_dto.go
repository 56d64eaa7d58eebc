package dto

// CountItem is a labelled count
type CountItem struct {
	Label string `json:"label" example:"Turkey"`
	Count int    `json:"count" example:"12"`
}

// MonthlyCount is the number of submissions in a month (YYYY-MM)
type MonthlyCount struct {
	Month string `json:"month" example:"2025-03"`
	Count int    `json:"count" example:"7"`
}

// DashboardResponse aggregates the admin analytics dashboard
type DashboardResponse struct {
	TotalApplications int            `json:"totalApplications"`
	ByStatus          map[string]int `json:"byStatus"`
	Monthly           []MonthlyCount `json:"monthly"`
	ByCountry         []CountItem    `json:"byCountry"`
	ByDegreeLevel     []CountItem    `json:"byDegreeLevel"`
	TopPrograms       []CountItem    `json:"topPrograms"`
	AcceptanceRate    float64        `json:"acceptanceRate" example:"0.42"`
	TotalStudents     int            `json:"totalStudents"`
	ActiveAgents      int            `json:"activeAgents"`
	RemoteSyncPending int            `json:"remoteSyncPending"`
}
