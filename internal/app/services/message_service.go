package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/filestorage"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/validation"
	"github.com/yigit/edupath/internal/pkg/websocket"
)

// Realtime event types
const (
	EventMessageCreated = "message.created"
	EventMessageRead    = "message.read"
	EventMessageDeleted = "message.deleted"
)

const (
	defaultMessagePage = 50
	maxMessagePage     = 200
	autoReplyTimeout   = 10 * time.Second
)

// RealtimePublisher pushes events to the clients of a room
type RealtimePublisher interface {
	Publish(room, eventType string, data interface{})
}

// AutoReplyConfig controls the simulated admissions reply
type AutoReplyConfig struct {
	Enabled  bool
	MinDelay time.Duration
	MaxDelay time.Duration
}

// ConversationRoom returns the realtime room of a student's conversation
func ConversationRoom(conversationID int64) string {
	return "conversation:" + strconv.FormatInt(conversationID, 10)
}

// MessageService handles the conversations between students and the admissions team
type MessageService struct {
	messageRepo   repositories.MessageRepository
	userRepo      repositories.UserRepository
	authz         *authz.AuthorizationService
	storage       filestorage.FileStorage
	policy        filestorage.Policy
	realtime      RealtimePublisher
	publisher     events.Publisher
	notifications *NotificationService
	autoReply     AutoReplyConfig
	logger        zerolog.Logger

	schedule func(d time.Duration, f func())
	int63n   func(n int64) int64

	// pending auto-reply timers, stopped by Close
	mu       sync.Mutex
	timers   map[*time.Timer]struct{}
	inflight sync.WaitGroup
	closed   bool
}

// NewMessageService creates a new MessageService
func NewMessageService(
	repos *repositories.Repositories,
	authorization *authz.AuthorizationService,
	storage filestorage.FileStorage,
	maxUploadMB int,
	realtime RealtimePublisher,
	publisher events.Publisher,
	notifications *NotificationService,
	autoReply AutoReplyConfig,
	logger zerolog.Logger,
) *MessageService {
	s := &MessageService{
		messageRepo:   repos.Messages,
		userRepo:      repos.Users,
		authz:         authorization,
		storage:       storage,
		policy:        filestorage.DocumentPolicy(maxUploadMB),
		realtime:      realtime,
		publisher:     publisher,
		notifications: notifications,
		autoReply:     autoReply,
		logger:        logger,
		int63n:        rand.Int63n,
		timers:        make(map[*time.Timer]struct{}),
	}
	s.schedule = s.startTimer
	return s
}

// startTimer runs f after d unless Close is called first
func (s *MessageService) startTimer(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, pending := s.timers[timer]
		delete(s.timers, timer)
		if pending {
			s.inflight.Add(1)
		}
		s.mu.Unlock()

		if pending {
			defer s.inflight.Done()
			f()
		}
	})
	s.timers[timer] = struct{}{}
}

// Close cancels the auto-replies that have not fired yet and waits for the
// ones already running.
func (s *MessageService) Close() {
	s.mu.Lock()
	s.closed = true
	stopped := len(s.timers)
	for timer := range s.timers {
		timer.Stop()
		delete(s.timers, timer)
	}
	s.mu.Unlock()

	s.inflight.Wait()
	s.logger.Info().Int("cancelled", stopped).Msg("Auto-replies stopped")
}

// Send stores a message in a conversation. Students may only write to their own
// conversation; staff replies go to the student's conversation.
func (s *MessageService) Send(ctx context.Context, actor authz.Actor, conversationID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	if err := s.authz.CanAccessConversation(actor, conversationID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.Attachments) == 0 {
		return nil, apperrors.NewBadRequestError("message text or an attachment is required")
	}

	senderType := models.SenderStudent
	if actor.IsStaff() {
		senderType = models.SenderAdmin
		student, err := s.userRepo.GetByID(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if student.RoleType != models.RoleStudent {
			return nil, apperrors.NewBadRequestError("conversations belong to students")
		}
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       actor.UserID,
		SenderType:     senderType,
		Text:           text,
		Attachments:    req.Attachments,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.delivered(ctx, message)

	if senderType == models.SenderAdmin {
		s.notifications.Notify(ctx, Notice{
			UserID:    conversationID,
			Category:  models.CategoryGeneral,
			TitleKey:  i18n.KeyNotifyMessageTitle,
			BodyKey:   i18n.KeyNotifyMessageBody,
			ActionURL: "/messages",
		})
	} else if s.autoReply.Enabled {
		s.scheduleAutoReply(conversationID, actor.Lang)
	}

	return message, nil
}

// delivered fans a new message out to realtime clients and the broker
func (s *MessageService) delivered(ctx context.Context, message *models.Message) {
	s.realtime.Publish(ConversationRoom(message.ConversationID), EventMessageCreated, message)
	if err := s.publisher.Publish(ctx, events.New(events.MessageSent, message)); err != nil {
		s.logger.Warn().Err(err).Int64("messageID", message.ID).Msg("Failed to publish message event")
	}
}

func (s *MessageService) autoReplyDelay() time.Duration {
	lo, hi := s.autoReply.MinDelay, s.autoReply.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.int63n(int64(hi-lo)+1))
}

// scheduleAutoReply posts one simulated admissions reply after a random delay
func (s *MessageService) scheduleAutoReply(conversationID int64, fallback i18n.Lang) {
	delay := s.autoReplyDelay()
	s.logger.Debug().Int64("conversationID", conversationID).Dur("delay", delay).Msg("Auto-reply scheduled")

	s.schedule(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), autoReplyTimeout)
		defer cancel()

		lang := fallback
		if student, err := s.userRepo.GetByID(ctx, conversationID); err == nil {
			if parsed, ok := i18n.Parse(student.Language); ok {
				lang = parsed
			}
		}

		reply := &models.Message{
			ConversationID: conversationID,
			SenderType:     models.SenderAdmin,
			Text:           i18n.T(lang, i18n.KeyAutoReply),
			CreatedAt:      time.Now().UTC(),
		}
		if _, err := s.messageRepo.Create(ctx, reply); err != nil {
			s.logger.Error().Err(err).Int64("conversationID", conversationID).Msg("Failed to store auto-reply")
			return
		}
		s.delivered(ctx, reply)
	})
}

// List returns a page of a conversation, newest first
func (s *MessageService) List(ctx context.Context, actor authz.Actor, conversationID int64, query dto.MessageQuery) ([]*models.Message, error) {
	if err := s.authz.CanAccessConversation(actor, conversationID); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultMessagePage
	}
	if limit > maxMessagePage {
		limit = maxMessagePage
	}
	return s.messageRepo.ListByConversation(ctx, conversationID, query.Before, limit)
}

// MarkRead marks the other side's messages of the conversation as read
func (s *MessageService) MarkRead(ctx context.Context, actor authz.Actor, conversationID int64) (int, error) {
	if err := s.authz.CanAccessConversation(actor, conversationID); err != nil {
		return 0, err
	}

	other := models.SenderAdmin
	if actor.IsStaff() {
		other = models.SenderStudent
	}

	changed, err := s.messageRepo.MarkRead(ctx, conversationID, other)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	if changed > 0 {
		s.realtime.Publish(ConversationRoom(conversationID), EventMessageRead, map[string]interface{}{
			"conversationId": conversationID,
			"senderType":     other,
			"count":          changed,
		})
	}
	return changed, nil
}

// Delete removes a message written by the actor
func (s *MessageService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	message, err := s.authz.ValidateMessageOwnership(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.realtime.Publish(ConversationRoom(message.ConversationID), EventMessageDeleted, map[string]interface{}{"id": id})
	return nil
}

// Conversations lists every student conversation for the admin inbox
func (s *MessageService) Conversations(ctx context.Context) ([]*models.Conversation, error) {
	conversations, err := s.messageRepo.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, conv := range conversations {
		student, err := s.userRepo.GetByID(ctx, conv.StudentID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("studentID", conv.StudentID).Msg("Conversation without student account")
			continue
		}
		conv.StudentName = student.FullName()
		conv.Email = student.Email
	}
	return conversations, nil
}

// UploadAttachment stores a file to be sent with a message
func (s *MessageService) UploadAttachment(ctx context.Context, actor authz.Actor, filename string, content io.Reader) (*models.Attachment, error) {
	upload, err := s.policy.Read(filename, content)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Save(ctx, fmt.Sprintf("messages/%d", actor.UserID), upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}
	return &models.Attachment{
		Name:        stored.Name,
		URL:         stored.URL,
		Size:        stored.Size,
		ContentType: stored.ContentType,
	}, nil
}

// HandleInbound handles frames sent over the realtime connection
func (s *MessageService) HandleInbound(ctx context.Context, sub websocket.Subscription, frame websocket.InboundFrame) error {
	actor := authz.Actor{UserID: sub.UserID, Role: models.RoleType(sub.Role), Lang: i18n.Default}

	switch frame.Type {
	case websocket.FrameMessage:
		req := &dto.SendMessageRequest{Text: frame.Text}
		if err := validation.Default().Struct(req); err != nil {
			return err
		}
		_, err := s.Send(ctx, actor, sub.ConversationID, req)
		return err
	case websocket.FrameRead:
		_, err := s.MarkRead(ctx, actor, sub.ConversationID)
		return err
	default:
		return apperrors.NewBadRequestError("unknown frame type " + frame.Type)
	}
}
