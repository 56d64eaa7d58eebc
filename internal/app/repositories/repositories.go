package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/kvstore"
)

// UserRepository stores user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	ListByRole(ctx context.Context, role models.RoleType, search string, offset uint64, limit int) ([]*models.User, int64, error)
	CountByRole(ctx context.Context, role models.RoleType) (int, error)
}

// UniversityRepository stores catalog universities
type UniversityRepository interface {
	Create(ctx context.Context, university *models.University) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.University, error)
	List(ctx context.Context, filter dto.UniversityFilter) ([]*models.University, error)
	Update(ctx context.Context, university *models.University) error
	Delete(ctx context.Context, id int64) error
	Countries(ctx context.Context) ([]string, error)
}

// ProgramRepository stores catalog programs
type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	List(ctx context.Context, filter dto.ProgramFilter, offset uint64, limit int) ([]*models.Program, int64, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
	CountByUniversity(ctx context.Context, universityID int64) (int, error)
}

// AgentRepository stores partner agents
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Agent, error)
	List(ctx context.Context, search string) ([]*models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) error
	Delete(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
}

// NotificationRepository stores notification center entries
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	// ListByUser returns the user's notifications, newest first
	ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	SetFlags(ctx context.Context, id int64, isRead, isImportant bool) error
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	DeleteAllByUser(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// MessageRepository stores conversation messages
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// ListByConversation returns up to limit messages older than before (0 = newest), newest first
	ListByConversation(ctx context.Context, conversationID, before int64, limit int) ([]*models.Message, error)
	// MarkRead marks the messages of the conversation written by sender as read
	MarkRead(ctx context.Context, conversationID int64, sender models.SenderType) (int, error)
	Delete(ctx context.Context, id int64) error
	// Conversations returns one entry per conversation with its last message and
	// the number of unread student messages. Student names are not filled.
	Conversations(ctx context.Context) ([]*models.Conversation, error)
}

// ApplicationRepository stores submitted applications in the student and admin lists
type ApplicationRepository interface {
	// Save appends the record to both lists
	Save(ctx context.Context, application *models.Application) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Application, error)
	ListAll(ctx context.Context) ([]*models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	// Update rewrites the record in both lists
	Update(ctx context.Context, application *models.Application) error
	Delete(ctx context.Context, id string) error
}

// DraftRepository stores wizard drafts with a TTL
type DraftRepository interface {
	Save(ctx context.Context, draft *models.WizardDraft) error
	Get(ctx context.Context, id string) (*models.WizardDraft, error)
	Delete(ctx context.Context, id string) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Users         UserRepository
	Universities  UniversityRepository
	Programs      ProgramRepository
	Agents        AgentRepository
	Notifications NotificationRepository
	Messages      MessageRepository
	Applications  ApplicationRepository
	Drafts        DraftRepository
}

// NewPostgresRepositories initializes the relational repositories on PostgreSQL.
// Applications and drafts always live in the key-value store.
func NewPostgresRepositories(db *pgxpool.Pool, kv kvstore.Store, draftTTL time.Duration) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Universities:  NewUniversityRepository(db),
		Programs:      NewProgramRepository(db),
		Agents:        NewAgentRepository(db),
		Notifications: NewNotificationRepository(db),
		Messages:      NewMessageRepository(db),
		Applications:  NewApplicationRepository(kv),
		Drafts:        NewDraftRepository(kv, draftTTL),
	}
}

// NewMemoryRepositories initializes in-process repositories, used for demos and tests
func NewMemoryRepositories(kv kvstore.Store, draftTTL time.Duration) *Repositories {
	universities := NewMemoryUniversityRepository()
	return &Repositories{
		Users:         NewMemoryUserRepository(),
		Universities:  universities,
		Programs:      NewMemoryProgramRepository(universities),
		Agents:        NewMemoryAgentRepository(),
		Notifications: NewMemoryNotificationRepository(),
		Messages:      NewMemoryMessageRepository(),
		Applications:  NewApplicationRepository(kv),
		Drafts:        NewDraftRepository(kv, draftTTL),
	}
}
