package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

func (f *fixture) seedNotification(t *testing.T, userID int64, age time.Duration, category models.NotificationCategory, read, important bool) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:      userID,
		Title:       "title",
		Message:     "message",
		Category:    category,
		IsRead:      read,
		IsImportant: important,
		CreatedAt:   fixedNow.Add(-age),
	}
	_, err := f.repos.Notifications.Create(context.Background(), n)
	require.NoError(t, err)
	return n
}

func TestNotifications_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.student.ID

	f.seedNotification(t, id, time.Hour, models.CategoryApplication, false, true)
	f.seedNotification(t, id, 3*24*time.Hour, models.CategoryFinancial, true, false)
	f.seedNotification(t, id, 20*24*time.Hour, models.CategoryApplication, false, false)
	f.seedNotification(t, id, 60*24*time.Hour, models.CategorySystem, true, true)
	f.seedNotification(t, f.admin.ID, time.Hour, models.CategoryApplication, false, false)

	tests := []struct {
		name   string
		filter dto.NotificationFilter
		want   int
	}{
		{"all", dto.NotificationFilter{}, 4},
		{"today", dto.NotificationFilter{DateRange: dto.RangeToday}, 1},
		{"week", dto.NotificationFilter{DateRange: dto.RangeWeek}, 2},
		{"month", dto.NotificationFilter{DateRange: dto.RangeMonth}, 3},
		{"unread", dto.NotificationFilter{Tab: dto.TabUnread}, 2},
		{"important", dto.NotificationFilter{Tab: dto.TabImportant}, 2},
		{"category", dto.NotificationFilter{Category: string(models.CategoryApplication)}, 2},
		{"combined", dto.NotificationFilter{Tab: dto.TabUnread, DateRange: dto.RangeWeek}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.notifications.List(ctx, f.studentActor(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, resp.Items, tt.want)
			assert.Equal(t, tt.want, resp.Total)
			assert.Equal(t, 2, resp.UnreadCount)
		})
	}
}

func TestNotifications_ListIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	older := f.seedNotification(t, f.student.ID, 2*time.Hour, models.CategoryGeneral, false, false)
	newer := f.seedNotification(t, f.student.ID, time.Hour, models.CategoryGeneral, false, false)

	resp, err := f.notifications.List(context.Background(), f.studentActor(), dto.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, newer.ID, resp.Items[0].ID)
	assert.Equal(t, older.ID, resp.Items[1].ID)
}

func TestNotifications_MarkReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := f.seedNotification(t, f.student.ID, time.Hour, models.CategoryGeneral, false, true)
	f.seedNotification(t, f.student.ID, time.Hour, models.CategoryGeneral, false, false)

	unread, err := f.notifications.MarkRead(ctx, f.studentActor(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	unread, err = f.notifications.MarkRead(ctx, f.studentActor(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	stored, err := f.repos.Notifications.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	assert.True(t, stored.IsImportant)
}

func TestNotifications_OwnershipIsEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n := f.seedNotification(t, f.admin.ID, time.Hour, models.CategoryGeneral, false, false)

	_, err := f.notifications.MarkRead(ctx, f.studentActor(), n.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)

	_, err = f.notifications.ToggleImportant(ctx, f.studentActor(), n.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)

	err = f.notifications.Delete(ctx, f.studentActor(), n.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestNotifications_ToggleImportantAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.studentActor()
	n := f.seedNotification(t, f.student.ID, time.Hour, models.CategoryGeneral, false, false)
	f.seedNotification(t, f.student.ID, time.Hour, models.CategoryGeneral, false, false)

	toggled, err := f.notifications.ToggleImportant(ctx, actor, n.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsImportant)
	toggled, err = f.notifications.ToggleImportant(ctx, actor, n.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsImportant)

	require.NoError(t, f.notifications.Delete(ctx, actor, n.ID))
	count, err := f.notifications.UnreadCount(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	changed, err := f.notifications.MarkAllRead(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	changed, err = f.notifications.MarkAllRead(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	removed, err := f.notifications.DeleteAll(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestNotifications_NotifyUsesRecipientLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	turkish := &models.User{Email: "ayse@example.com", FirstName: "Ayse", RoleType: models.RoleStudent, Language: "tr", IsActive: true}
	_, err := f.repos.Users.Create(ctx, turkish)
	require.NoError(t, err)

	f.notifications.Notify(ctx, Notice{
		UserID:   turkish.ID,
		Category: models.CategoryApplication,
		TitleKey: i18n.KeyNotifyStatusTitle,
		BodyKey:  i18n.KeyNotifyStatusBody,
		Args:     []interface{}{"APP-1", "review"},
	})

	list, err := f.repos.Notifications.ListByUser(ctx, turkish.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, i18n.T(i18n.Turkish, i18n.KeyNotifyStatusTitle), list[0].Title)
	assert.Equal(t, i18n.T(i18n.Turkish, i18n.KeyNotifyStatusBody, "APP-1", "review"), list[0].Message)
	assert.Equal(t, fixedNow, list[0].CreatedAt)
}

func TestNotifications_NotifyUnknownUserFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.notifications.Notify(ctx, Notice{UserID: 999, TitleKey: i18n.KeyNotifyMessageTitle, BodyKey: i18n.KeyNotifyMessageBody})

	list, err := f.repos.Notifications.ListByUser(ctx, 999)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, i18n.T(i18n.Default, i18n.KeyNotifyMessageTitle), list[0].Title)
}

func TestNotifications_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.notifications.Create(ctx, &dto.CreateNotificationRequest{
		UserID: f.student.ID, Title: "Fee reminder", Message: "Please pay the deposit", Category: "financial", IsImportant: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, models.CategoryFinancial, n.Category)

	_, err = f.notifications.Create(ctx, &dto.CreateNotificationRequest{UserID: 999, Title: "x", Message: "y", Category: "general"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
