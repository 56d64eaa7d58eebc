package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
)

// CatalogService defines the operations on universities and programs
type CatalogService interface {
	ListUniversities(ctx context.Context, filter dto.UniversityFilter) ([]*models.University, error)
	GetUniversity(ctx context.Context, id int64) (*models.University, error)
	CreateUniversity(ctx context.Context, req *dto.UniversityRequest) (*models.University, error)
	UpdateUniversity(ctx context.Context, id int64, req *dto.UniversityRequest) (*models.University, error)
	DeleteUniversity(ctx context.Context, id int64) error
	Countries(ctx context.Context) ([]string, error)

	ListPrograms(ctx context.Context, filter dto.ProgramFilter) (*dto.PaginatedResponse, error)
	GetProgram(ctx context.Context, id int64) (*models.Program, error)
	CreateProgram(ctx context.Context, req *dto.ProgramRequest) (*models.Program, error)
	UpdateProgram(ctx context.Context, id int64, req *dto.ProgramRequest) (*models.Program, error)
	DeleteProgram(ctx context.Context, id int64) error
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	universityRepo repositories.UniversityRepository
	programRepo    repositories.ProgramRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(universityRepo repositories.UniversityRepository, programRepo repositories.ProgramRepository) CatalogService {
	return &catalogServiceImpl{
		universityRepo: universityRepo,
		programRepo:    programRepo,
	}
}

func (s *catalogServiceImpl) ListUniversities(ctx context.Context, filter dto.UniversityFilter) ([]*models.University, error) {
	return s.universityRepo.List(ctx, filter)
}

func (s *catalogServiceImpl) GetUniversity(ctx context.Context, id int64) (*models.University, error) {
	if id <= 0 {
		return nil, apperrors.ErrUniversityNotFound
	}
	return s.universityRepo.GetByID(ctx, id)
}

func universityFromRequest(req *dto.UniversityRequest) *models.University {
	return &models.University{
		Name:        strings.TrimSpace(req.Name),
		Country:     strings.TrimSpace(req.Country),
		City:        strings.TrimSpace(req.City),
		Website:     req.Website,
		Description: req.Description,
	}
}

func (s *catalogServiceImpl) CreateUniversity(ctx context.Context, req *dto.UniversityRequest) (*models.University, error) {
	university := universityFromRequest(req)
	if _, err := s.universityRepo.Create(ctx, university); err != nil {
		return nil, err
	}
	return university, nil
}

func (s *catalogServiceImpl) UpdateUniversity(ctx context.Context, id int64, req *dto.UniversityRequest) (*models.University, error) {
	university := universityFromRequest(req)
	university.ID = id
	if err := s.universityRepo.Update(ctx, university); err != nil {
		return nil, err
	}
	return s.universityRepo.GetByID(ctx, id)
}

// DeleteUniversity refuses to remove a university that still offers programs
func (s *catalogServiceImpl) DeleteUniversity(ctx context.Context, id int64) error {
	count, err := s.programRepo.CountByUniversity(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count programs: %w", err)
	}
	if count > 0 {
		return apperrors.ErrUniversityHasPrograms
	}
	return s.universityRepo.Delete(ctx, id)
}

func (s *catalogServiceImpl) Countries(ctx context.Context) ([]string, error) {
	return s.universityRepo.Countries(ctx)
}

func (s *catalogServiceImpl) ListPrograms(ctx context.Context, filter dto.ProgramFilter) (*dto.PaginatedResponse, error) {
	if filter.DegreeLevel != "" && !models.DegreeLevel(filter.DegreeLevel).IsValid() {
		return nil, apperrors.NewBadRequestError("unknown degree level")
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	programs, total, err := s.programRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return &dto.PaginatedResponse{
		Items:      programs,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.Size),
	}, nil
}

func (s *catalogServiceImpl) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	if id <= 0 {
		return nil, apperrors.ErrProgramNotFound
	}
	return s.programRepo.GetByID(ctx, id)
}

func programFromRequest(req *dto.ProgramRequest) *models.Program {
	return &models.Program{
		UniversityID:  req.UniversityID,
		Name:          strings.TrimSpace(req.Name),
		DegreeLevel:   models.DegreeLevel(req.DegreeLevel),
		Language:      strings.TrimSpace(req.Language),
		DurationYears: req.DurationYears,
		TuitionFee:    req.TuitionFee,
		Currency:      strings.ToUpper(req.Currency),
		Description:   req.Description,
	}
}

func (s *catalogServiceImpl) CreateProgram(ctx context.Context, req *dto.ProgramRequest) (*models.Program, error) {
	program := programFromRequest(req)
	if _, err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, program.ID)
}

func (s *catalogServiceImpl) UpdateProgram(ctx context.Context, id int64, req *dto.ProgramRequest) (*models.Program, error) {
	program := programFromRequest(req)
	program.ID = id
	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, id)
}

func (s *catalogServiceImpl) DeleteProgram(ctx context.Context, id int64) error {
	return s.programRepo.Delete(ctx, id)
}
