package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/kvstore"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// Key-value list keys
const (
	AdminApplicationsKey   = "adminApplications"
	studentApplicationsKey = "studentApplications:"
	wizardDraftKey         = "wizardDrafts:"
)

// StudentApplicationsKey returns the list key of a student's applications
func StudentApplicationsKey(studentID int64) string {
	return studentApplicationsKey + strconv.FormatInt(studentID, 10)
}

// KVApplicationRepository keeps applications as JSON entries of two lists:
// one per student and one for the admin back-office.
type KVApplicationRepository struct {
	kv kvstore.Store
	// serializes read-modify-write of the lists within this process
	mu sync.Mutex
}

// NewApplicationRepository creates a new KVApplicationRepository
func NewApplicationRepository(kv kvstore.Store) *KVApplicationRepository {
	return &KVApplicationRepository{kv: kv}
}

func decodeApplications(raw [][]byte) ([]*models.Application, error) {
	apps := make([]*models.Application, 0, len(raw))
	for _, entry := range raw {
		app := &models.Application{}
		if err := json.Unmarshal(entry, app); err != nil {
			return nil, fmt.Errorf("failed to decode application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func encodeApplications(apps []*models.Application) ([][]byte, error) {
	raw := make([][]byte, 0, len(apps))
	for _, app := range apps {
		entry, err := json.Marshal(app)
		if err != nil {
			return nil, fmt.Errorf("failed to encode application %s: %w", app.ID, err)
		}
		raw = append(raw, entry)
	}
	return raw, nil
}

func (r *KVApplicationRepository) list(ctx context.Context, key string) ([]*models.Application, error) {
	raw, err := r.kv.ListRange(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return decodeApplications(raw)
}

// Save appends the record to the student list and the admin list.
// ErrApplicationIDTaken is returned when the admin list already holds the ID.
func (r *KVApplicationRepository) Save(ctx context.Context, application *models.Application) error {
	entry, err := json.Marshal(application)
	if err != nil {
		return fmt.Errorf("failed to encode application: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.list(ctx, AdminApplicationsKey)
	if err != nil {
		return err
	}
	for _, app := range existing {
		if app.ID == application.ID {
			return apperrors.ErrApplicationIDTaken
		}
	}

	studentKey := StudentApplicationsKey(application.StudentID)
	if err := r.kv.ListAppend(ctx, studentKey, entry); err != nil {
		return fmt.Errorf("failed to append to %s: %w", studentKey, err)
	}

	if err := r.kv.ListAppend(ctx, AdminApplicationsKey, entry); err != nil {
		// keep both lists consistent
		if rbErr := r.removeLocked(ctx, studentKey, application.ID); rbErr != nil {
			logger.Error().Err(rbErr).Str("applicationID", application.ID).Msg("Failed to roll back student application list")
		}
		return fmt.Errorf("failed to append to %s: %w", AdminApplicationsKey, err)
	}

	return nil
}

// ListByStudent returns the student's applications, newest first
func (r *KVApplicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Application, error) {
	apps, err := r.list(ctx, StudentApplicationsKey(studentID))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)
	return apps, nil
}

// ListAll returns every application of the admin list, newest first
func (r *KVApplicationRepository) ListAll(ctx context.Context) ([]*models.Application, error) {
	apps, err := r.list(ctx, AdminApplicationsKey)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)
	return apps, nil
}

func sortNewestFirst(apps []*models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
}

// Get returns an application by ID from the admin list
func (r *KVApplicationRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	apps, err := r.list(ctx, AdminApplicationsKey)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, apperrors.ErrApplicationNotFound
}

// Update rewrites the record in the admin list and in its student list
func (r *KVApplicationRepository) Update(ctx context.Context, application *models.Application) error {
	application.UpdatedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{AdminApplicationsKey, StudentApplicationsKey(application.StudentID)} {
		if err := r.replaceLocked(ctx, key, application); err != nil {
			return err
		}
	}
	return nil
}

func (r *KVApplicationRepository) replaceLocked(ctx context.Context, key string, application *models.Application) error {
	apps, err := r.list(ctx, key)
	if err != nil {
		return err
	}

	found := false
	for i, app := range apps {
		if app.ID == application.ID {
			apps[i] = application
			found = true
		}
	}
	if !found {
		return apperrors.ErrApplicationNotFound
	}

	raw, err := encodeApplications(apps)
	if err != nil {
		return err
	}
	if err := r.kv.ListReplace(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", key, err)
	}
	return nil
}

// Delete removes the record from both lists
func (r *KVApplicationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx, AdminApplicationsKey)
	if err != nil {
		return err
	}

	var studentID int64
	found := false
	for _, app := range apps {
		if app.ID == id {
			studentID = app.StudentID
			found = true
			break
		}
	}
	if !found {
		return apperrors.ErrApplicationNotFound
	}

	if err := r.removeLocked(ctx, AdminApplicationsKey, id); err != nil {
		return err
	}
	if err := r.removeLocked(ctx, StudentApplicationsKey(studentID), id); err != nil && !errors.Is(err, apperrors.ErrApplicationNotFound) {
		return err
	}
	return nil
}

func (r *KVApplicationRepository) removeLocked(ctx context.Context, key, id string) error {
	apps, err := r.list(ctx, key)
	if err != nil {
		return err
	}

	kept := apps[:0]
	for _, app := range apps {
		if app.ID != id {
			kept = append(kept, app)
		}
	}
	if len(kept) == len(apps) {
		return apperrors.ErrApplicationNotFound
	}

	raw, err := encodeApplications(kept)
	if err != nil {
		return err
	}
	if err := r.kv.ListReplace(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", key, err)
	}
	return nil
}

// KVDraftRepository stores wizard drafts as JSON values with a TTL
type KVDraftRepository struct {
	kv  kvstore.Store
	ttl time.Duration
}

// NewDraftRepository creates a new KVDraftRepository
func NewDraftRepository(kv kvstore.Store, ttl time.Duration) *KVDraftRepository {
	return &KVDraftRepository{kv: kv, ttl: ttl}
}

// Save stores the draft and refreshes its TTL
func (r *KVDraftRepository) Save(ctx context.Context, draft *models.WizardDraft) error {
	value, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := r.kv.Set(ctx, wizardDraftKey+draft.ID, value, r.ttl); err != nil {
		return fmt.Errorf("failed to store draft %s: %w", draft.ID, err)
	}
	return nil
}

// Get returns a draft by ID
func (r *KVDraftRepository) Get(ctx context.Context, id string) (*models.WizardDraft, error) {
	value, err := r.kv.Get(ctx, wizardDraftKey+id)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, apperrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	draft := &models.WizardDraft{}
	if err := json.Unmarshal(value, draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
	}
	return draft, nil
}

// Delete removes a draft
func (r *KVDraftRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, wizardDraftKey+id)
}
