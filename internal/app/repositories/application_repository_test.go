package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/kvstore"
)

func newApplication(id string, studentID int64, submitted time.Time) *models.Application {
	return &models.Application{
		ID:          id,
		StudentID:   studentID,
		Status:      models.StatusPending,
		SubmittedAt: submitted,
		UpdatedAt:   submitted,
		FormData:    map[string]interface{}{"firstName": "Amina"},
	}
}

func TestKVApplicationRepository_SaveWritesBothLists(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	repo := NewApplicationRepository(kv)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, newApplication("APP-20260301-0001", 5, base)))
	require.NoError(t, repo.Save(ctx, newApplication("APP-20260301-0002", 5, base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, newApplication("APP-20260301-0003", 9, base.Add(2*time.Hour))))

	student, err := kv.ListRange(ctx, StudentApplicationsKey(5))
	require.NoError(t, err)
	assert.Len(t, student, 2)

	admin, err := kv.ListRange(ctx, AdminApplicationsKey)
	require.NoError(t, err)
	assert.Len(t, admin, 3)

	mine, err := repo.ListByStudent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "APP-20260301-0002", mine[0].ID, "newest first")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "APP-20260301-0003", all[0].ID)
	assert.Equal(t, "Amina", all[2].FormData["firstName"])
}

func TestKVApplicationRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository(kvstore.NewMemoryStore())

	app := newApplication("APP-20260301-0001", 5, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, app))

	app.Status = models.StatusApproved
	require.NoError(t, repo.Update(ctx, app))

	fromAdmin, err := repo.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, fromAdmin.Status)

	fromStudent, err := repo.ListByStudent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, fromStudent, 1)
	assert.Equal(t, models.StatusApproved, fromStudent[0].Status)

	require.NoError(t, repo.Delete(ctx, app.ID))
	_, err = repo.Get(ctx, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	fromStudent, err = repo.ListByStudent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, fromStudent)

	assert.ErrorIs(t, repo.Delete(ctx, app.ID), apperrors.ErrApplicationNotFound)
	assert.ErrorIs(t, repo.Update(ctx, app), apperrors.ErrApplicationNotFound)
}

func TestKVApplicationRepository_SaveRejectsTakenID(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	repo := NewApplicationRepository(kv)

	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, newApplication("APP-20260301-1042", 5, now)))

	err := repo.Save(ctx, newApplication("APP-20260301-1042", 9, now))
	assert.ErrorIs(t, err, apperrors.ErrApplicationIDTaken)

	admin, err := kv.ListRange(ctx, AdminApplicationsKey)
	require.NoError(t, err)
	assert.Len(t, admin, 1)

	other, err := repo.ListByStudent(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestKVDraftRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	kv := kvstore.NewMemoryStore().WithClock(func() time.Time { return now })
	repo := NewDraftRepository(kv, time.Hour)

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)

	draft := &models.WizardDraft{ID: "d1", StudentID: 5, CurrentStep: models.StepDocuments}
	draft.Personal.FirstName = "Amina"
	require.NoError(t, repo.Save(ctx, draft))

	loaded, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.StepDocuments, loaded.CurrentStep)
	assert.Equal(t, "Amina", loaded.Personal.FirstName)

	now = now.Add(2 * time.Hour)
	_, err = repo.Get(ctx, "d1")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound, "expired drafts are gone")

	require.NoError(t, repo.Save(ctx, draft))
	require.NoError(t, repo.Delete(ctx, "d1"))
	_, err = repo.Get(ctx, "d1")
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}
