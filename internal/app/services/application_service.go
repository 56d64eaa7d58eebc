package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/helpers"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// ApplicationService serves submitted applications to students and the back-office
type ApplicationService struct {
	applicationRepo repositories.ApplicationRepository
	authz           *authz.AuthorizationService
	notifications   *NotificationService
	publisher       events.Publisher
	logger          zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	authorization *authz.AuthorizationService,
	notifications *NotificationService,
	publisher events.Publisher,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		authz:           authorization,
		notifications:   notifications,
		publisher:       publisher,
		logger:          logger,
	}
}

// ListForStudent returns the actor's own applications, newest first
func (s *ApplicationService) ListForStudent(ctx context.Context, actor authz.Actor) ([]*models.Application, error) {
	return s.applicationRepo.ListByStudent(ctx, actor.UserID)
}

// Get returns an application visible to the actor
func (s *ApplicationService) Get(ctx context.Context, actor authz.Actor, id string) (*models.Application, error) {
	application, err := s.applicationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessApplication(actor, application); err != nil {
		return nil, err
	}
	return application, nil
}

// List returns a page of the admin list filtered by status, student and search text
func (s *ApplicationService) List(ctx context.Context, filter dto.ApplicationFilter) (*dto.PaginatedResponse, error) {
	all, err := s.applicationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	matched := make([]*models.Application, 0, len(all))
	for _, app := range all {
		if filter.Status != "" && string(app.Status) != filter.Status {
			continue
		}
		if filter.StudentID > 0 && app.StudentID != filter.StudentID {
			continue
		}
		if filter.Search != "" && !matchesApplication(app, filter.Search) {
			continue
		}
		matched = append(matched, app)
	}

	items, pagination := helpers.Paginate(matched, filter.Page, filter.Size)
	return &dto.PaginatedResponse{Items: items, Pagination: pagination}, nil
}

func matchesApplication(app *models.Application, search string) bool {
	for _, field := range []string{app.ID, app.StudentName, app.StudentEmail, app.UniversityName, app.ProgramName, app.Country} {
		if helpers.ContainsFold(field, search) {
			return true
		}
	}
	return false
}

// UpdateStatus sets any status of the enum and notifies the student
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateStatusRequest) (*models.Application, error) {
	status := models.ApplicationStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	application, err := s.applicationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := application.Status
	application.Status = status
	application.StatusNote = req.Note
	if err := s.applicationRepo.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.logger.Info().
		Str("applicationID", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Int64("by", actor.UserID).
		Msg("Application status changed")

	if previous != status {
		s.notifications.Notify(ctx, Notice{
			UserID:    application.StudentID,
			Category:  models.CategoryApplication,
			TitleKey:  i18n.KeyNotifyStatusTitle,
			BodyKey:   i18n.KeyNotifyStatusBody,
			Args:      []interface{}{application.ID, string(status)},
			Important: status == models.StatusConditional || status == models.StatusDocuments || status.IsAccepted(),
			ActionURL: "/applications/" + application.ID,
		})
		s.publish(ctx, events.ApplicationStatusChanged, map[string]interface{}{
			"applicationId": application.ID,
			"studentId":     application.StudentID,
			"from":          previous,
			"to":            status,
			"note":          req.Note,
		})
	}
	return application, nil
}

// UpdateDocument changes one checklist entry and notifies the student
func (s *ApplicationService) UpdateDocument(ctx context.Context, id, name string, req *dto.UpdateDocumentRequest) (*models.Application, error) {
	status := models.DocumentStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid document status")
	}

	application, err := s.applicationRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, ok := application.Document(name)
	if !ok {
		return nil, apperrors.ErrDocumentNotFound
	}
	doc.Status = status
	if req.URL != "" {
		doc.URL = req.URL
	}

	if err := s.applicationRepo.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.notifications.Notify(ctx, Notice{
		UserID:    application.StudentID,
		Category:  models.CategoryApplication,
		TitleKey:  i18n.KeyNotifyDocumentTitle,
		BodyKey:   i18n.KeyNotifyDocumentBody,
		Args:      []interface{}{name, application.ID, string(status)},
		ActionURL: "/applications/" + application.ID,
	})
	return application, nil
}

// Delete removes an application from both lists
func (s *ApplicationService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("applicationID", id).Int64("by", actor.UserID).Msg("Application deleted")
	s.publish(ctx, events.ApplicationDeleted, map[string]interface{}{"applicationId": id})
	return nil
}

func (s *ApplicationService) publish(ctx context.Context, name string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.New(name, payload)); err != nil {
		s.logger.Warn().Err(err).Str("event", name).Msg("Failed to publish event")
	}
}
