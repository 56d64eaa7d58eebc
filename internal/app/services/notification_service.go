package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// NotificationService backs the notification panel
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	authz            *authz.AuthorizationService
	logger           zerolog.Logger
	now              func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	authorization *authz.AuthorizationService,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		authz:            authorization,
		logger:           logger,
		now:              time.Now,
	}
}

// List returns the actor's notifications matching the panel filters, newest first
func (s *NotificationService) List(ctx context.Context, actor authz.Actor, filter dto.NotificationFilter) (*dto.NotificationListResponse, error) {
	all, err := s.notificationRepo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	since := s.rangeStart(filter.DateRange)
	items := make([]*models.Notification, 0, len(all))
	unread := 0
	for _, n := range all {
		if !n.IsRead {
			unread++
		}
		if !matchesTab(n, filter.Tab) {
			continue
		}
		if filter.Category != "" && string(n.Category) != filter.Category {
			continue
		}
		if !since.IsZero() && n.CreatedAt.Before(since) {
			continue
		}
		items = append(items, n)
	}

	return &dto.NotificationListResponse{
		Items:       items,
		Total:       len(items),
		UnreadCount: unread,
	}, nil
}

func matchesTab(n *models.Notification, tab string) bool {
	switch tab {
	case dto.TabUnread:
		return !n.IsRead
	case dto.TabImportant:
		return n.IsImportant
	default:
		return true
	}
}

// rangeStart returns the oldest creation time kept by a date range; zero keeps everything.
// "week" and "month" are rolling 7 and 30 day windows.
func (s *NotificationService) rangeStart(dateRange string) time.Time {
	now := s.now().UTC()
	switch dateRange {
	case dto.RangeToday:
		return helpers.StartOfDay(now)
	case dto.RangeWeek:
		return now.AddDate(0, 0, -7)
	case dto.RangeMonth:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// UnreadCount returns the number of unread notifications
func (s *NotificationService) UnreadCount(ctx context.Context, actor authz.Actor) (int, error) {
	return s.notificationRepo.CountUnread(ctx, actor.UserID)
}

// MarkRead marks one notification read. Marking an already read notification changes nothing.
func (s *NotificationService) MarkRead(ctx context.Context, actor authz.Actor, id int64) (int, error) {
	notification, err := s.authz.ValidateNotificationOwnership(ctx, id, actor)
	if err != nil {
		return 0, err
	}

	if !notification.IsRead {
		if err := s.notificationRepo.SetFlags(ctx, id, true, notification.IsImportant); err != nil {
			return 0, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}
	return s.notificationRepo.CountUnread(ctx, actor.UserID)
}

// MarkAllRead marks every notification of the actor read and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, actor authz.Actor) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, actor.UserID)
}

// ToggleImportant flips the important flag
func (s *NotificationService) ToggleImportant(ctx context.Context, actor authz.Actor, id int64) (*models.Notification, error) {
	notification, err := s.authz.ValidateNotificationOwnership(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	notification.IsImportant = !notification.IsImportant
	if err := s.notificationRepo.SetFlags(ctx, id, notification.IsRead, notification.IsImportant); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return notification, nil
}

// Delete removes one notification
func (s *NotificationService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	if _, err := s.authz.ValidateNotificationOwnership(ctx, id, actor); err != nil {
		return err
	}
	return s.notificationRepo.Delete(ctx, id)
}

// DeleteAll clears the actor's panel
func (s *NotificationService) DeleteAll(ctx context.Context, actor authz.Actor) (int, error) {
	return s.notificationRepo.DeleteAllByUser(ctx, actor.UserID)
}

// Create lets staff send a notification to a user
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:      req.UserID,
		Title:       req.Title,
		Message:     req.Message,
		Category:    models.NotificationCategory(req.Category),
		IsImportant: req.IsImportant,
		ActionURL:   req.ActionURL,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// Notice is a system notification rendered in the recipient's language.
// Args only format the body.
type Notice struct {
	UserID    int64
	Category  models.NotificationCategory
	TitleKey  string
	BodyKey   string
	Args      []interface{}
	Important bool
	ActionURL string
}

// Notify stores a localized notification. Failures are logged and not returned.
func (s *NotificationService) Notify(ctx context.Context, notice Notice) {
	lang := i18n.Default
	if user, err := s.userRepo.GetByID(ctx, notice.UserID); err == nil {
		if parsed, ok := i18n.Parse(user.Language); ok {
			lang = parsed
		}
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Warn().Err(err).Int64("userID", notice.UserID).Msg("Could not load notification recipient")
	}

	notification := &models.Notification{
		UserID:      notice.UserID,
		Title:       i18n.T(lang, notice.TitleKey),
		Message:     i18n.T(lang, notice.BodyKey, notice.Args...),
		Category:    notice.Category,
		IsImportant: notice.Important,
		ActionURL:   notice.ActionURL,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Int64("userID", notice.UserID).Str("title", notice.TitleKey).Msg("Failed to store notification")
	}
}
