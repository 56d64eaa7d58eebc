package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

func TestApplications_StudentAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	own, err := f.applications.ListForStudent(ctx, f.studentActor())
	require.NoError(t, err)
	require.Len(t, own, 1)

	got, err := f.applications.Get(ctx, f.studentActor(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)

	_, err = f.applications.Get(ctx, f.adminActor(), app.ID)
	require.NoError(t, err)

	stranger := f.studentActor()
	stranger.UserID = 500
	_, err = f.applications.Get(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestApplications_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t)
	f.submission.intn = func(int) int { return 7 }
	second := f.submit(t)

	_, err := f.applications.UpdateStatus(ctx, f.adminActor(), first.ID, &dto.UpdateStatusRequest{Status: "review"})
	require.NoError(t, err)

	resp, err := f.applications.List(ctx, dto.ApplicationFilter{Status: "review"})
	require.NoError(t, err)
	items := resp.Items.([]*models.Application)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)

	resp, err = f.applications.List(ctx, dto.ApplicationFilter{Search: second.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Items.([]*models.Application), 1)

	resp, err = f.applications.List(ctx, dto.ApplicationFilter{Search: "istanbul"})
	require.NoError(t, err)
	assert.Len(t, resp.Items.([]*models.Application), 2)

	resp, err = f.applications.List(ctx, dto.ApplicationFilter{StudentID: f.admin.ID})
	require.NoError(t, err)
	assert.Empty(t, resp.Items.([]*models.Application))

	resp, err = f.applications.List(ctx, dto.ApplicationFilter{Page: 2, Size: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Items.([]*models.Application), 1)
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestApplications_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.applications.UpdateStatus(ctx, f.adminActor(), app.ID, &dto.UpdateStatusRequest{Status: "enrolled"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	updated, err := f.applications.UpdateStatus(ctx, f.adminActor(), app.ID, &dto.UpdateStatusRequest{Status: "conditional", Note: "Send the language certificate"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConditional, updated.Status)
	assert.Equal(t, "Send the language certificate", updated.StatusNote)

	own, err := f.repos.Applications.ListByStudent(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConditional, own[0].Status)

	notifications, err := f.repos.Notifications.ListByUser(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	latest := notifications[0]
	if latest.Title != i18n.T(i18n.English, i18n.KeyNotifyStatusTitle) {
		latest = notifications[1]
	}
	assert.Equal(t, i18n.T(i18n.English, i18n.KeyNotifyStatusBody, app.ID, "conditional"), latest.Message)
	assert.True(t, latest.IsImportant)

	_, err = f.applications.UpdateStatus(ctx, f.adminActor(), app.ID, &dto.UpdateStatusRequest{Status: "conditional"})
	require.NoError(t, err)

	assert.Equal(t, []string{events.ApplicationSubmitted, events.ApplicationStatusChanged}, f.recorder.Names())

	_, err = f.applications.UpdateStatus(ctx, f.adminActor(), "APP-19990101-1000", &dto.UpdateStatusRequest{Status: "review"})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestApplications_UpdateDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	updated, err := f.applications.UpdateDocument(ctx, app.ID, "passport", &dto.UpdateDocumentRequest{Status: "approved"})
	require.NoError(t, err)
	passport, ok := updated.Document("passport")
	require.True(t, ok)
	assert.Equal(t, models.DocumentApproved, passport.Status)
	assert.Equal(t, "http://files.test/uploads/p.pdf", passport.URL)

	_, err = f.applications.UpdateDocument(ctx, app.ID, "visa", &dto.UpdateDocumentRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)

	_, err = f.applications.UpdateDocument(ctx, app.ID, "passport", &dto.UpdateDocumentRequest{Status: "lost"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestApplications_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	require.NoError(t, f.applications.Delete(ctx, f.adminActor(), app.ID))

	_, err := f.applications.Get(ctx, f.adminActor(), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	own, err := f.applications.ListForStudent(ctx, f.studentActor())
	require.NoError(t, err)
	assert.Empty(t, own)
	assert.Contains(t, f.recorder.Names(), events.ApplicationDeleted)

	assert.ErrorIs(t, f.applications.Delete(ctx, f.adminActor(), app.ID), apperrors.ErrApplicationNotFound)
}
