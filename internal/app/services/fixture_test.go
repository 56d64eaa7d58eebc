package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	authz "github.com/yigit/edupath/internal/app/auth"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/email"
	"github.com/yigit/edupath/internal/pkg/events"
	"github.com/yigit/edupath/internal/pkg/filestorage"
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/kvstore"
	"github.com/yigit/edupath/internal/pkg/remote"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	fixedNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
)

type fakeSubmitter struct {
	mu       sync.Mutex
	result   *remote.Result
	err      error
	payloads []interface{}
}

func (f *fakeSubmitter) Submit(_ context.Context, payload interface{}) (*remote.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &remote.Result{ReferenceID: "REMOTE-1", Attempts: 1}, nil
	}
	return f.result, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	err           error
	confirmations []email.ApplicationConfirmation
	inquiries     []email.ContactInquiry
}

func (f *fakeMailer) SendApplicationConfirmation(_ context.Context, msg email.ApplicationConfirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, msg)
	return f.err
}

func (f *fakeMailer) SendContactInquiry(_ context.Context, inquiry email.ContactInquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inquiries = append(f.inquiries, inquiry)
	return f.err
}

type realtimeEvent struct {
	Room string
	Type string
	Data interface{}
}

type fakeRealtime struct {
	mu     sync.Mutex
	events []realtimeEvent
}

func (f *fakeRealtime) Publish(room, eventType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, realtimeEvent{Room: room, Type: eventType, Data: data})
}

func (f *fakeRealtime) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.events))
	for i, e := range f.events {
		types[i] = e.Type
	}
	return types
}

type fixture struct {
	repos         *repositories.Repositories
	recorder      *events.Recorder
	submitter     *fakeSubmitter
	mailer        *fakeMailer
	realtime      *fakeRealtime
	authorization *authz.AuthorizationService
	notifications *NotificationService
	submission    *SubmissionService
	wizard        *WizardService
	messages      *MessageService
	applications  *ApplicationService

	student    *models.User
	admin      *models.User
	university *models.University
	program    *models.Program

	// scheduled holds auto-replies queued by the message service
	scheduled []func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	kv := kvstore.NewMemoryStore()
	repos := repositories.NewMemoryRepositories(kv, time.Hour)
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://files.test/uploads")
	require.NoError(t, err)

	f := &fixture{
		repos:     repos,
		recorder:  &events.Recorder{},
		submitter: &fakeSubmitter{},
		mailer:    &fakeMailer{},
		realtime:  &fakeRealtime{},
	}

	f.authorization = authz.NewAuthorizationService(repos.Notifications, repos.Messages)
	f.notifications = NewNotificationService(repos.Notifications, repos.Users, f.authorization, logger)
	f.notifications.now = func() time.Time { return fixedNow }

	f.submission = NewSubmissionService(repos, f.submitter, f.notifications, f.mailer, f.recorder, logger)
	f.submission.now = func() time.Time { return fixedNow }
	f.submission.intn = func(int) int { return 42 }

	f.wizard = NewWizardService(repos, f.submission, storage, 5, f.authorization, logger)
	f.wizard.now = func() time.Time { return fixedNow }
	f.wizard.newID = func() string { return "draft-1" }

	f.messages = NewMessageService(repos, f.authorization, storage, 5, f.realtime, f.recorder, f.notifications,
		AutoReplyConfig{Enabled: true, MinDelay: time.Second, MaxDelay: 3 * time.Second}, logger)
	f.messages.schedule = func(_ time.Duration, fn func()) { f.scheduled = append(f.scheduled, fn) }
	f.messages.int63n = func(int64) int64 { return 0 }

	f.applications = NewApplicationService(repos.Applications, f.authorization, f.notifications, f.recorder, logger)

	f.student = &models.User{
		Email: "ahmed@example.com", FirstName: "Ahmed", LastName: "Hassan",
		Phone: "+905551112233", RoleType: models.RoleStudent, Language: "en", IsActive: true,
	}
	_, err = repos.Users.Create(ctx, f.student)
	require.NoError(t, err)

	f.admin = &models.User{
		Email: "admin@example.com", FirstName: "Admissions", RoleType: models.RoleAdmin, Language: "en", IsActive: true,
	}
	_, err = repos.Users.Create(ctx, f.admin)
	require.NoError(t, err)

	f.university = &models.University{Name: "Istanbul University", Country: "Turkey", City: "Istanbul"}
	_, err = repos.Universities.Create(ctx, f.university)
	require.NoError(t, err)

	f.program = &models.Program{
		UniversityID: f.university.ID, Name: "Computer Engineering", DegreeLevel: models.DegreeBachelor,
		Language: "English", DurationYears: 4, TuitionFee: 4500, Currency: "USD",
	}
	_, err = repos.Programs.Create(ctx, f.program)
	require.NoError(t, err)

	return f
}

func (f *fixture) studentActor() authz.Actor {
	return authz.Actor{UserID: f.student.ID, Role: models.RoleStudent, Lang: i18n.English}
}

func (f *fixture) adminActor() authz.Actor {
	return authz.Actor{UserID: f.admin.ID, Role: models.RoleAdmin, Lang: i18n.English}
}

func (f *fixture) runScheduled() {
	pending := f.scheduled
	f.scheduled = nil
	for _, fn := range pending {
		fn()
	}
}
