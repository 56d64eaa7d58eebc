package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/email"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/remote"
)

// ApplicationSubmitter forwards applications to the external admissions API
type ApplicationSubmitter interface {
	Submit(ctx context.Context, payload interface{}) (*remote.Result, error)
}

// SubmissionInput is a completed application form
type SubmissionInput struct {
	FormData     map[string]interface{}
	UniversityID *int64
	ProgramID    *int64
	AcademicYear string
	Semester     string
	PinCode      string
}

type remotePayload struct {
	Application *models.Application    `json:"application"`
	FormData    map[string]interface{} `json:"formData"`
}

// SubmissionService turns completed forms into application records
type SubmissionService struct {
	applicationRepo repositories.ApplicationRepository
	userRepo        repositories.UserRepository
	universityRepo  repositories.UniversityRepository
	programRepo     repositories.ProgramRepository
	submitter       ApplicationSubmitter
	notifications   *NotificationService
	mailer          email.EmailService
	publisher       events.Publisher
	logger          zerolog.Logger
	now             func() time.Time
	intn            func(n int) int
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	repos *repositories.Repositories,
	submitter ApplicationSubmitter,
	notifications *NotificationService,
	mailer email.EmailService,
	publisher events.Publisher,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		applicationRepo: repos.Applications,
		userRepo:        repos.Users,
		universityRepo:  repos.Universities,
		programRepo:     repos.Programs,
		submitter:       submitter,
		notifications:   notifications,
		mailer:          mailer,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
		intn:            rand.Intn,
	}
}

// NewApplicationID returns "APP-YYYYMMDD-NNNN" for the given day and a random four digit number
func NewApplicationID(now time.Time, intn func(n int) int) string {
	return fmt.Sprintf("APP-%s-%04d", now.Format("20060102"), 1000+intn(9000))
}

// maxIDAttempts bounds the draws for an unused application ID
const maxIDAttempts = 5

// newApplicationID draws IDs until one is not in the admin list yet
func (s *SubmissionService) newApplicationID(ctx context.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := NewApplicationID(now, s.intn)
		_, err := s.applicationRepo.Get(ctx, id)
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check application id: %w", err)
		}
	}
	return "", apperrors.ErrApplicationIDTaken
}

// save stores the record, drawing a new ID when a concurrent submission took it
func (s *SubmissionService) save(ctx context.Context, application *models.Application, now time.Time) error {
	for attempt := 0; ; attempt++ {
		err := s.applicationRepo.Save(ctx, application)
		if !errors.Is(err, apperrors.ErrApplicationIDTaken) || attempt >= maxIDAttempts {
			return err
		}

		id, idErr := s.newApplicationID(ctx, now)
		if idErr != nil {
			return idErr
		}
		s.logger.Warn().Str("applicationID", application.ID).Str("newID", id).Msg("Application ID taken, retrying with a new one")
		application.ID = id
	}
}

// Submit builds the application record, forwards it to the remote API and
// stores it locally. Remote network failures degrade to a partial success;
// rejections and local failures abort the submission.
func (s *SubmissionService) Submit(ctx context.Context, actor authz.Actor, input SubmissionInput) (*dto.SubmissionResponse, error) {
	student, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	formData := input.FormData
	if formData == nil {
		formData = map[string]interface{}{}
	}

	now := s.now().UTC()
	id, err := s.newApplicationID(ctx, now)
	if err != nil {
		return nil, err
	}
	application := &models.Application{
		ID:           id,
		StudentID:    student.ID,
		StudentName:  student.FullName(),
		StudentEmail: student.Email,
		Status:       models.StatusPending,
		SubmittedAt:  now,
		UpdatedAt:    now,
		Documents:    models.NewChecklist(formData),
		AcademicYear: input.AcademicYear,
		Semester:     input.Semester,
		PinCode:      input.PinCode,
		FormData:     formData,
	}
	if err := s.resolveCatalog(ctx, application, input.UniversityID, input.ProgramID); err != nil {
		return nil, err
	}

	log := s.logger.With().Str("applicationID", application.ID).Int64("studentID", student.ID).Logger()

	outcome := dto.OutcomeSuccess
	result, err := s.submitter.Submit(ctx, remotePayload{Application: application, FormData: formData})
	switch {
	case err == nil:
		application.RemoteSynced = true
		application.RemoteReference = result.ReferenceID
		log.Info().Int("attempts", result.Attempts).Msg("Application accepted by remote service")
	case remote.IsNetwork(err):
		outcome = dto.OutcomePartialSuccess
		log.Warn().Err(err).Msg("Remote submission unavailable, saving locally")
	default:
		log.Error().Err(err).Msg("Remote submission failed")
		return nil, err
	}

	// The local save completes even if the client disconnects.
	saveCtx := context.WithoutCancel(ctx)
	if err := s.save(saveCtx, application, now); err != nil {
		log.Error().Err(err).Msg("Failed to store application")
		return nil, fmt.Errorf("failed to store application: %w", err)
	}

	s.afterSubmit(saveCtx, student, application, actor.Lang)

	key := i18n.KeySubmissionSuccess
	if outcome == dto.OutcomePartialSuccess {
		key = i18n.KeySubmissionPartial
	}
	return &dto.SubmissionResponse{
		Application: application,
		Outcome:     outcome,
		Message:     i18n.T(actor.Lang, key, application.ID),
	}, nil
}

// resolveCatalog fills the denormalized university and program fields.
// A program implies its university.
func (s *SubmissionService) resolveCatalog(ctx context.Context, application *models.Application, universityID, programID *int64) error {
	if programID != nil && *programID > 0 {
		program, err := s.programRepo.GetByID(ctx, *programID)
		if err != nil {
			return err
		}
		id, uni := program.ID, program.UniversityID
		application.ProgramID = &id
		application.ProgramName = program.Name
		application.DegreeLevel = program.DegreeLevel
		application.UniversityID = &uni
		application.UniversityName = program.UniversityName
		application.Country = program.Country
		return nil
	}

	if universityID != nil && *universityID > 0 {
		university, err := s.universityRepo.GetByID(ctx, *universityID)
		if err != nil {
			return err
		}
		id := university.ID
		application.UniversityID = &id
		application.UniversityName = university.Name
		application.Country = university.Country
	}
	return nil
}

// afterSubmit runs the best-effort side effects of a stored submission
func (s *SubmissionService) afterSubmit(ctx context.Context, student *models.User, application *models.Application, lang i18n.Lang) {
	s.notifications.Notify(ctx, Notice{
		UserID:    student.ID,
		Category:  models.CategoryApplication,
		TitleKey:  i18n.KeyNotifyReceivedTitle,
		BodyKey:   i18n.KeyNotifyReceivedBody,
		Args:      []interface{}{application.ID},
		ActionURL: "/applications/" + application.ID,
	})

	if err := s.mailer.SendApplicationConfirmation(ctx, email.ApplicationConfirmation{
		ToEmail:       student.Email,
		ToName:        student.FullName(),
		ApplicationID: application.ID,
		University:    application.UniversityName,
		Program:       application.ProgramName,
		Lang:          lang,
	}); err != nil {
		s.logger.Warn().Err(err).Str("applicationID", application.ID).Msg("Failed to send confirmation email")
	}

	if err := s.publisher.Publish(ctx, events.New(events.ApplicationSubmitted, application)); err != nil {
		s.logger.Warn().Err(err).Str("applicationID", application.ID).Msg("Failed to publish submission event")
	}
}
