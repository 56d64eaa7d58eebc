package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/logger"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID int64
	Role   models.RoleType
	Lang   i18n.Lang
}

// IsStaff reports whether the actor works in the back-office
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// AuthorizationService answers ownership questions for students and staff.
// Resources a student may not see are reported as not found.
type AuthorizationService struct {
	notificationRepo repositories.NotificationRepository
	messageRepo      repositories.MessageRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(notificationRepo repositories.NotificationRepository, messageRepo repositories.MessageRepository) *AuthorizationService {
	return &AuthorizationService{
		notificationRepo: notificationRepo,
		messageRepo:      messageRepo,
	}
}

// CanAccessApplication checks that the actor is staff or the applicant
func (s *AuthorizationService) CanAccessApplication(actor Actor, application *models.Application) error {
	if actor.IsStaff() || application.StudentID == actor.UserID {
		return nil
	}
	logger.Warn().Int64("userID", actor.UserID).Str("applicationID", application.ID).Msg("Application access denied")
	return apperrors.ErrApplicationNotFound
}

// CanAccessDraft checks that the draft belongs to the actor
func (s *AuthorizationService) CanAccessDraft(actor Actor, draft *models.WizardDraft) error {
	if draft.StudentID != actor.UserID {
		return apperrors.ErrDraftNotFound
	}
	return nil
}

// CanAccessConversation checks that a student only reads their own conversation
func (s *AuthorizationService) CanAccessConversation(actor Actor, conversationID int64) error {
	if actor.IsStaff() || conversationID == actor.UserID {
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// ValidateNotificationOwnership returns the notification when it belongs to the actor
func (s *AuthorizationService) ValidateNotificationOwnership(ctx context.Context, notificationID int64, actor Actor) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotificationNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("notificationID", notificationID).Msg("Error getting notification by ID")
		return nil, fmt.Errorf("failed to check notification ownership: %w", err)
	}

	if notification.UserID != actor.UserID {
		return nil, apperrors.ErrNotificationNotFound
	}
	return notification, nil
}

// ValidateMessageOwnership returns the message when the actor wrote it.
// Staff may remove any message.
func (s *AuthorizationService) ValidateMessageOwnership(ctx context.Context, messageID int64, actor Actor) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Int64("messageID", messageID).Msg("Error getting message by ID")
		return nil, fmt.Errorf("failed to check message ownership: %w", err)
	}

	if actor.IsStaff() {
		return message, nil
	}
	if message.ConversationID != actor.UserID {
		return nil, apperrors.ErrMessageNotFound
	}
	if message.SenderID != actor.UserID {
		return nil, apperrors.ErrPermissionDenied
	}
	return message, nil
}
