package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/websocket"
)

func TestConversationRoom(t *testing.T) {
	assert.Equal(t, "conversation:42", ConversationRoom(42))
}

func TestMessages_StudentSendSchedulesAutoReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID := f.student.ID

	msg, err := f.messages.Send(ctx, f.studentActor(), convID, &dto.SendMessageRequest{Text: "  When does the fall semester start?  "})
	require.NoError(t, err)
	assert.Equal(t, models.SenderStudent, msg.SenderType)
	assert.Equal(t, "When does the fall semester start?", msg.Text)
	assert.Equal(t, []string{EventMessageCreated}, f.realtime.types())
	assert.Equal(t, ConversationRoom(convID), f.realtime.events[0].Room)
	require.Len(t, f.scheduled, 1)

	f.runScheduled()

	page, err := f.messages.List(ctx, f.studentActor(), convID, dto.MessageQuery{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	reply := page[0]
	assert.Equal(t, models.SenderAdmin, reply.SenderType)
	assert.Zero(t, reply.SenderID)
	assert.Equal(t, i18n.T(i18n.English, i18n.KeyAutoReply), reply.Text)

	assert.Equal(t, []string{EventMessageCreated, EventMessageCreated}, f.realtime.types())
	assert.Equal(t, []string{events.MessageSent, events.MessageSent}, f.recorder.Names())
}

func TestMessages_AutoReplyDisabled(t *testing.T) {
	f := newFixture(t)
	f.messages.autoReply.Enabled = false

	_, err := f.messages.Send(context.Background(), f.studentActor(), f.student.ID, &dto.SendMessageRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Empty(t, f.scheduled)
}

func TestMessages_AutoReplyDelayBounds(t *testing.T) {
	f := newFixture(t)

	f.messages.int63n = func(int64) int64 { return 0 }
	assert.Equal(t, time.Second, f.messages.autoReplyDelay())

	f.messages.int63n = func(n int64) int64 { return n - 1 }
	assert.Equal(t, 3*time.Second, f.messages.autoReplyDelay())

	f.messages.autoReply.MaxDelay = 0
	assert.Equal(t, time.Second, f.messages.autoReplyDelay())
}

func TestMessages_StaffReplyNotifiesStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.messages.Send(ctx, f.adminActor(), f.student.ID, &dto.SendMessageRequest{Text: "Your documents look good"})
	require.NoError(t, err)
	assert.Equal(t, models.SenderAdmin, msg.SenderType)
	assert.Equal(t, f.admin.ID, msg.SenderID)
	assert.Empty(t, f.scheduled)

	notifications, err := f.repos.Notifications.ListByUser(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, i18n.T(i18n.English, i18n.KeyNotifyMessageTitle), notifications[0].Title)
}

func TestMessages_StaffCannotWriteToStaffConversation(t *testing.T) {
	f := newFixture(t)

	_, err := f.messages.Send(context.Background(), f.adminActor(), f.admin.ID, &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestMessages_StudentCannotReadOtherConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.Send(ctx, f.studentActor(), f.student.ID+1, &dto.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.messages.List(ctx, f.studentActor(), f.student.ID+1, dto.MessageQuery{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestMessages_EmptyMessageIsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.messages.Send(context.Background(), f.studentActor(), f.student.ID, &dto.SendMessageRequest{Text: "   "})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestMessages_MarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID := f.student.ID

	_, err := f.messages.Send(ctx, f.adminActor(), convID, &dto.SendMessageRequest{Text: "one"})
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, f.adminActor(), convID, &dto.SendMessageRequest{Text: "two"})
	require.NoError(t, err)

	changed, err := f.messages.MarkRead(ctx, f.studentActor(), convID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Contains(t, f.realtime.types(), EventMessageRead)

	changed, err = f.messages.MarkRead(ctx, f.studentActor(), convID)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestMessages_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	convID := f.student.ID

	staffMsg, err := f.messages.Send(ctx, f.adminActor(), convID, &dto.SendMessageRequest{Text: "from staff"})
	require.NoError(t, err)
	own, err := f.messages.Send(ctx, f.studentActor(), convID, &dto.SendMessageRequest{Text: "mine"})
	require.NoError(t, err)

	err = f.messages.Delete(ctx, f.studentActor(), staffMsg.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.messages.Delete(ctx, f.studentActor(), own.ID))
	assert.Contains(t, f.realtime.types(), EventMessageDeleted)

	require.NoError(t, f.messages.Delete(ctx, f.adminActor(), staffMsg.ID))

	page, err := f.messages.List(ctx, f.adminActor(), convID, dto.MessageQuery{})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMessages_ListPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.messages.autoReply.Enabled = false
	convID := f.student.ID

	var ids []int64
	for _, text := range []string{"a", "b", "c"} {
		msg, err := f.messages.Send(ctx, f.studentActor(), convID, &dto.SendMessageRequest{Text: text})
		require.NoError(t, err)
		ids = append(ids, msg.ID)
	}

	page, err := f.messages.List(ctx, f.studentActor(), convID, dto.MessageQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = f.messages.List(ctx, f.studentActor(), convID, dto.MessageQuery{Before: ids[1]})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
}

func TestMessages_Conversations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.messages.autoReply.Enabled = false

	_, err := f.messages.Send(ctx, f.studentActor(), f.student.ID, &dto.SendMessageRequest{Text: "question"})
	require.NoError(t, err)

	conversations, err := f.messages.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, f.student.ID, conversations[0].StudentID)
	assert.Equal(t, "Ahmed Hassan", conversations[0].StudentName)
	assert.Equal(t, "ahmed@example.com", conversations[0].Email)
	assert.Equal(t, 1, conversations[0].UnreadCount)
}

func TestMessages_UploadAttachment(t *testing.T) {
	f := newFixture(t)

	attachment, err := f.messages.UploadAttachment(context.Background(), f.studentActor(), "transcript.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "transcript.pdf", attachment.Name)
	assert.Equal(t, "application/pdf", attachment.ContentType)
	assert.Contains(t, attachment.URL, "http://files.test/uploads/messages/")

	_, err = f.messages.UploadAttachment(context.Background(), f.studentActor(), "empty.pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFile)
}

func TestMessages_HandleInbound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.messages.autoReply.Enabled = false
	sub := websocket.Subscription{
		Room:           ConversationRoom(f.student.ID),
		UserID:         f.student.ID,
		Role:           string(models.RoleStudent),
		ConversationID: f.student.ID,
	}

	require.NoError(t, f.messages.HandleInbound(ctx, sub, websocket.InboundFrame{Type: websocket.FrameMessage, Text: "over the socket"}))

	page, err := f.messages.List(ctx, f.studentActor(), f.student.ID, dto.MessageQuery{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "over the socket", page[0].Text)

	assert.Error(t, f.messages.HandleInbound(ctx, sub, websocket.InboundFrame{Type: websocket.FrameMessage}))
	assert.NoError(t, f.messages.HandleInbound(ctx, sub, websocket.InboundFrame{Type: websocket.FrameRead}))
	assert.ErrorIs(t, f.messages.HandleInbound(ctx, sub, websocket.InboundFrame{Type: "typing"}), apperrors.ErrBadRequest)
}

func pendingAutoReplies(s *MessageService) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func TestMessages_CloseCancelsPendingAutoReplies(t *testing.T) {
	f := newFixture(t)
	svc := f.messages
	fired := make(chan struct{}, 3)
	fire := func() { fired <- struct{}{} }

	svc.startTimer(time.Millisecond, fire)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("auto-reply timer did not fire")
	}
	assert.Zero(t, pendingAutoReplies(svc))

	svc.startTimer(time.Hour, fire)
	assert.Equal(t, 1, pendingAutoReplies(svc))

	svc.Close()
	assert.Zero(t, pendingAutoReplies(svc))

	svc.startTimer(time.Millisecond, fire)
	assert.Zero(t, pendingAutoReplies(svc), "nothing is scheduled after Close")

	select {
	case <-fired:
		t.Fatal("auto-reply ran after Close")
	case <-time.After(50 * time.Millisecond):
	}
}
