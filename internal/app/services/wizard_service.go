package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/filestorage"
	"github.com/yigit/edupath/internal/pkg/validation"
)

// Document kinds accepted by the wizard
const (
	DocumentPhoto      = "photo"
	DocumentPassport   = "passport"
	DocumentDiploma    = "diploma"
	DocumentTranscript = "transcript"
	DocumentLanguage   = "language"
	DocumentOther      = "other"
)

// WizardService drives the five step application wizard
type WizardService struct {
	draftRepo   repositories.DraftRepository
	userRepo    repositories.UserRepository
	programRepo repositories.ProgramRepository
	submission  *SubmissionService
	storage     filestorage.FileStorage
	docPolicy   filestorage.Policy
	photoPolicy filestorage.Policy
	authz       *authz.AuthorizationService
	validator   *validation.Validator
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewWizardService creates a new WizardService
func NewWizardService(
	repos *repositories.Repositories,
	submission *SubmissionService,
	storage filestorage.FileStorage,
	maxUploadMB int,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) *WizardService {
	return &WizardService{
		draftRepo:   repos.Drafts,
		userRepo:    repos.Users,
		programRepo: repos.Programs,
		submission:  submission,
		storage:     storage,
		docPolicy:   filestorage.DocumentPolicy(maxUploadMB),
		photoPolicy: filestorage.PhotoPolicy(maxUploadMB),
		authz:       authorization,
		validator:   validation.Default(),
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Start opens a draft at step 1, pre-filled from the student's account
func (s *WizardService) Start(ctx context.Context, actor authz.Actor) (*models.WizardDraft, error) {
	student, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft := &models.WizardDraft{
		ID:          s.newID(),
		StudentID:   student.ID,
		CurrentStep: models.StepPersonal,
		Personal: models.PersonalInfo{
			FirstName: student.FirstName,
			LastName:  student.LastName,
			Email:     student.Email,
			Phone:     student.Phone,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	s.logger.Info().Str("draftID", draft.ID).Int64("studentID", student.ID).Msg("Application wizard started")
	return draft, nil
}

// Get returns a draft owned by the actor
func (s *WizardService) Get(ctx context.Context, actor authz.Actor, id string) (*models.WizardDraft, error) {
	draft, err := s.draftRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAccessDraft(actor, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *WizardService) save(ctx context.Context, draft *models.WizardDraft) (*models.WizardDraft, error) {
	draft.UpdatedAt = s.now().UTC()
	if err := s.draftRepo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

// SaveSection merges payload into the section of step. Steps ahead of the
// current one are locked; content is only checked when moving forward.
func (s *WizardService) SaveSection(ctx context.Context, actor authz.Actor, id string, step int, payload json.RawMessage) (*models.WizardDraft, error) {
	draft, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if step < models.StepPersonal || step > draft.CurrentStep {
		return nil, apperrors.ErrStepLocked
	}

	// File URLs are only written by AttachDocument
	switch step {
	case models.StepPersonal:
		personal := draft.Personal
		if err := decodeSection(payload, &personal); err != nil {
			return nil, err
		}
		personal.PhotoURL = draft.Personal.PhotoURL
		draft.Personal = personal
	case models.StepDocuments:
		var ignored models.DocumentsSection
		if err := decodeSection(payload, &ignored); err != nil {
			return nil, err
		}
	case models.StepEducation:
		if err := decodeSection(payload, &draft.Education); err != nil {
			return nil, err
		}
	case models.StepPreferences:
		if err := decodeSection(payload, &draft.Preferences); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewBadRequestError("the review step has no editable section")
	}
	return s.save(ctx, draft)
}

func decodeSection(payload json.RawMessage, section interface{}) error {
	if err := json.Unmarshal(payload, section); err != nil {
		return apperrors.NewBadRequestError(fmt.Sprintf("invalid section payload: %v", err))
	}
	return nil
}

// AttachDocument uploads a file and records its URL in the draft
func (s *WizardService) AttachDocument(ctx context.Context, actor authz.Actor, id, kind, filename string, content io.Reader) (*models.WizardDraft, *filestorage.StoredFile, error) {
	draft, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	policy, step := s.docPolicy, models.StepDocuments
	switch kind {
	case DocumentPhoto:
		policy, step = s.photoPolicy, models.StepPersonal
	case DocumentPassport, DocumentDiploma, DocumentTranscript, DocumentLanguage, DocumentOther:
	default:
		return nil, nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "unknown document kind").
			WithDetails(map[string]interface{}{"kind": kind})
	}
	if step > draft.CurrentStep {
		return nil, nil, apperrors.ErrStepLocked
	}

	upload, err := policy.Read(filename, content)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.storage.Save(ctx, fmt.Sprintf("applications/%d/%s", draft.StudentID, draft.ID), upload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store document: %w", err)
	}

	switch kind {
	case DocumentPhoto:
		draft.Personal.PhotoURL = stored.URL
	case DocumentPassport:
		draft.Documents.PassportURL = stored.URL
	case DocumentDiploma:
		draft.Documents.DiplomaURL = stored.URL
	case DocumentTranscript:
		draft.Documents.TranscriptURL = stored.URL
	case DocumentLanguage:
		draft.Documents.LanguageCertificateURL = stored.URL
	case DocumentOther:
		draft.Documents.OtherDocuments = append(draft.Documents.OtherDocuments, models.Attachment{
			Name:        stored.Name,
			URL:         stored.URL,
			Size:        stored.Size,
			ContentType: stored.ContentType,
		})
	}

	draft, err = s.save(ctx, draft)
	if err != nil {
		return nil, nil, err
	}
	return draft, stored, nil
}

// validateStep checks the section of one step
func (s *WizardService) validateStep(ctx context.Context, draft *models.WizardDraft, step int) error {
	switch step {
	case models.StepPersonal:
		if err := s.validator.Struct(&draft.Personal); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStepIncomplete, err)
		}
		if strings.TrimSpace(draft.Personal.PhotoURL) == "" {
			return apperrors.ErrPhotoRequired
		}
	case models.StepDocuments:
		if err := s.validator.Struct(&draft.Documents); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStepIncomplete, err)
		}
		if strings.TrimSpace(draft.Documents.PassportURL) == "" {
			return apperrors.ErrPassportRequired
		}
	case models.StepEducation:
		if err := s.validator.Struct(&draft.Education); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStepIncomplete, err)
		}
	case models.StepPreferences:
		if err := s.validator.Struct(&draft.Preferences); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrStepIncomplete, err)
		}
		program, err := s.programRepo.GetByID(ctx, draft.Preferences.ProgramID)
		if err != nil {
			return err
		}
		if draft.Preferences.UniversityID > 0 && draft.Preferences.UniversityID != program.UniversityID {
			return apperrors.NewBadRequestError("the program does not belong to the selected university")
		}
	}
	return nil
}

// Next validates the current step and moves to the following one
func (s *WizardService) Next(ctx context.Context, actor authz.Actor, id string) (*models.WizardDraft, error) {
	draft, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if draft.CurrentStep >= models.StepReview {
		return nil, apperrors.ErrStepLocked
	}
	if err := s.validateStep(ctx, draft, draft.CurrentStep); err != nil {
		return nil, err
	}

	draft.CurrentStep++
	return s.save(ctx, draft)
}

// Back returns to the previous step, never below the first one
func (s *WizardService) Back(ctx context.Context, actor authz.Actor, id string) (*models.WizardDraft, error) {
	draft, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if draft.CurrentStep > models.StepPersonal {
		draft.CurrentStep--
	}
	return s.save(ctx, draft)
}

// Submit re-validates every section and hands the flattened form to the submission handler.
// The draft is removed once the application is stored.
func (s *WizardService) Submit(ctx context.Context, actor authz.Actor, id string, agreeTerms bool) (*dto.SubmissionResponse, error) {
	draft, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if draft.CurrentStep != models.StepReview {
		return nil, apperrors.ErrNotAtReview
	}
	if !agreeTerms {
		return nil, apperrors.ErrTermsNotAccepted
	}
	for step := models.StepPersonal; step < models.StepReview; step++ {
		if err := s.validateStep(ctx, draft, step); err != nil {
			return nil, err
		}
	}

	formData, err := FlattenDraft(draft)
	if err != nil {
		return nil, err
	}

	input := SubmissionInput{
		FormData:     formData,
		AcademicYear: draft.Preferences.AcademicYear,
		Semester:     draft.Preferences.Semester,
		PinCode:      draft.Preferences.PinCode,
	}
	programID := draft.Preferences.ProgramID
	input.ProgramID = &programID
	if draft.Preferences.UniversityID > 0 {
		universityID := draft.Preferences.UniversityID
		input.UniversityID = &universityID
	}

	response, err := s.submission.Submit(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	if err := s.draftRepo.Delete(context.WithoutCancel(ctx), draft.ID); err != nil {
		s.logger.Warn().Err(err).Str("draftID", draft.ID).Msg("Failed to remove submitted draft")
	}
	return response, nil
}

// FlattenDraft merges every section into one form-data object keyed by JSON field name
func FlattenDraft(draft *models.WizardDraft) (map[string]interface{}, error) {
	formData := map[string]interface{}{}
	sections := []interface{}{draft.Personal, draft.Documents, draft.Education, draft.Preferences}
	for _, section := range sections {
		raw, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("failed to encode draft section: %w", err)
		}
		if err := json.Unmarshal(raw, &formData); err != nil {
			return nil, fmt.Errorf("failed to flatten draft section: %w", err)
		}
	}
	return formData, nil
}
