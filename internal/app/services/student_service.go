package services

import (
	"context"
	"fmt"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
)

// StudentService gives the back-office read access to student accounts
type StudentService struct {
	userRepo        repositories.UserRepository
	applicationRepo repositories.ApplicationRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(userRepo repositories.UserRepository, applicationRepo repositories.ApplicationRepository) *StudentService {
	return &StudentService{userRepo: userRepo, applicationRepo: applicationRepo}
}

// List returns a page of students matching the search text
func (s *StudentService) List(ctx context.Context, filter dto.StudentFilter) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	students, total, err := s.userRepo.ListByRole(ctx, models.RoleStudent, filter.Search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.Size),
	}, nil
}

// Get returns a student with their applications
func (s *StudentService) Get(ctx context.Context, id int64) (*dto.StudentDetail, error) {
	student, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrUserNotFound
	}

	applications, err := s.applicationRepo.ListByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list student applications: %w", err)
	}
	return &dto.StudentDetail{Student: student, Applications: applications}, nil
}
