package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/helpers"
)

const (
	dashboardMonths = 12
	topProgramCount = 5
)

// AnalyticsService aggregates the admin dashboards
type AnalyticsService struct {
	applicationRepo repositories.ApplicationRepository
	userRepo        repositories.UserRepository
	agentRepo       repositories.AgentRepository
	now             func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repos *repositories.Repositories) *AnalyticsService {
	return &AnalyticsService{
		applicationRepo: repos.Applications,
		userRepo:        repos.Users,
		agentRepo:       repos.Agents,
		now:             time.Now,
	}
}

// Dashboard computes every dashboard figure from the admin application list
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	applications, err := s.applicationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}

	resp := Aggregate(applications, s.now().UTC())

	if resp.TotalStudents, err = s.userRepo.CountByRole(ctx, models.RoleStudent); err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	if resp.ActiveAgents, err = s.agentRepo.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("failed to count agents: %w", err)
	}
	return resp, nil
}

// Aggregate builds the application figures of the dashboard
func Aggregate(applications []*models.Application, now time.Time) *dto.DashboardResponse {
	resp := &dto.DashboardResponse{
		TotalApplications: len(applications),
		ByStatus:          make(map[string]int, len(models.ApplicationStatuses)),
	}
	for _, status := range models.ApplicationStatuses {
		resp.ByStatus[string(status)] = 0
	}

	months := helpers.LastMonths(now, dashboardMonths)
	monthly := make(map[string]int, len(months))
	countries := map[string]int{}
	degrees := map[string]int{}
	programs := map[string]int{}
	accepted := 0

	for _, app := range applications {
		resp.ByStatus[string(app.Status)]++
		if app.Status.IsAccepted() {
			accepted++
		}
		if !app.RemoteSynced {
			resp.RemoteSyncPending++
		}
		monthly[helpers.MonthKey(app.SubmittedAt)]++
		if app.Country != "" {
			countries[app.Country]++
		}
		if app.DegreeLevel != "" {
			degrees[string(app.DegreeLevel)]++
		}
		if app.ProgramName != "" {
			label := app.ProgramName
			if app.UniversityName != "" {
				label += " - " + app.UniversityName
			}
			programs[label]++
		}
	}

	resp.Monthly = make([]dto.MonthlyCount, 0, len(months))
	for _, month := range months {
		resp.Monthly = append(resp.Monthly, dto.MonthlyCount{Month: month, Count: monthly[month]})
	}
	resp.ByCountry = rank(countries, 0)
	resp.ByDegreeLevel = rank(degrees, 0)
	resp.TopPrograms = rank(programs, topProgramCount)
	if len(applications) > 0 {
		resp.AcceptanceRate = float64(accepted) / float64(len(applications))
	}
	return resp
}

// rank sorts counts descending, then by label; limit 0 keeps everything
func rank(counts map[string]int, limit int) []dto.CountItem {
	items := make([]dto.CountItem, 0, len(counts))
	for label, count := range counts {
		items = append(items, dto.CountItem{Label: label, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Label < items[j].Label
		}
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
