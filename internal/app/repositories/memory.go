package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/helpers"
)

// The memory repositories back the "memory" database driver. Records are
// copied on the way in and out so callers never share state with the store.

func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := int(offset) + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// MemoryUserRepository keeps users in memory
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
}

// NewMemoryUserRepository creates a new MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]*models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}

	r.nextID++
	now := time.Now().UTC()
	stored := *user
	stored.ID = r.nextID
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.users[stored.ID] = &stored

	user.ID, user.CreatedAt, user.UpdatedAt = stored.ID, now, now
	return stored.ID, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	stored := *user
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.LastLoginAt = &at
	return nil
}

func (r *MemoryUserRepository) ListByRole(_ context.Context, role models.RoleType, search string, offset uint64, limit int) ([]*models.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*models.User{}
	for _, user := range r.users {
		if user.RoleType != role {
			continue
		}
		if search != "" && !helpers.ContainsFold(user.FullName(), search) && !helpers.ContainsFold(user.Email, search) {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	return page(matched, offset, limit), int64(len(matched)), nil
}

func (r *MemoryUserRepository) CountByRole(_ context.Context, role models.RoleType) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, user := range r.users {
		if user.RoleType == role {
			count++
		}
	}
	return count, nil
}

// MemoryUniversityRepository keeps universities in memory
type MemoryUniversityRepository struct {
	mu           sync.RWMutex
	nextID       int64
	universities map[int64]*models.University
}

// NewMemoryUniversityRepository creates a new MemoryUniversityRepository
func NewMemoryUniversityRepository() *MemoryUniversityRepository {
	return &MemoryUniversityRepository{universities: make(map[int64]*models.University)}
}

func (r *MemoryUniversityRepository) Create(_ context.Context, university *models.University) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.universities {
		if strings.EqualFold(existing.Name, university.Name) {
			return 0, apperrors.ErrResourceAlreadyExists
		}
	}

	r.nextID++
	now := time.Now().UTC()
	stored := *university
	stored.ID = r.nextID
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.universities[stored.ID] = &stored

	university.ID, university.CreatedAt, university.UpdatedAt = stored.ID, now, now
	return stored.ID, nil
}

func (r *MemoryUniversityRepository) GetByID(_ context.Context, id int64) (*models.University, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	university, ok := r.universities[id]
	if !ok {
		return nil, apperrors.ErrUniversityNotFound
	}
	copied := *university
	return &copied, nil
}

func (r *MemoryUniversityRepository) List(_ context.Context, filter dto.UniversityFilter) ([]*models.University, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.University{}
	for _, university := range r.universities {
		if filter.Country != "" && !strings.EqualFold(university.Country, filter.Country) {
			continue
		}
		if filter.Search != "" && !helpers.ContainsFold(university.Name, filter.Search) && !helpers.ContainsFold(university.City, filter.Search) {
			continue
		}
		copied := *university
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryUniversityRepository) Update(_ context.Context, university *models.University) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.universities[university.ID]
	if !ok {
		return apperrors.ErrUniversityNotFound
	}
	stored := *university
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.universities[university.ID] = &stored
	return nil
}

func (r *MemoryUniversityRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.universities[id]; !ok {
		return apperrors.ErrUniversityNotFound
	}
	delete(r.universities, id)
	return nil
}

func (r *MemoryUniversityRepository) Countries(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	countries := []string{}
	for _, university := range r.universities {
		if !seen[university.Country] {
			seen[university.Country] = true
			countries = append(countries, university.Country)
		}
	}
	sort.Strings(countries)
	return countries, nil
}

func (r *MemoryUniversityRepository) lookup(id int64) (*models.University, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	university, ok := r.universities[id]
	return university, ok
}

// MemoryProgramRepository keeps programs in memory; university fields are joined on read
type MemoryProgramRepository struct {
	mu           sync.RWMutex
	nextID       int64
	programs     map[int64]*models.Program
	universities *MemoryUniversityRepository
}

// NewMemoryProgramRepository creates a new MemoryProgramRepository
func NewMemoryProgramRepository(universities *MemoryUniversityRepository) *MemoryProgramRepository {
	return &MemoryProgramRepository{programs: make(map[int64]*models.Program), universities: universities}
}

func (r *MemoryProgramRepository) joined(program *models.Program) *models.Program {
	copied := *program
	if university, ok := r.universities.lookup(program.UniversityID); ok {
		copied.UniversityName = university.Name
		copied.Country = university.Country
	}
	return &copied
}

func (r *MemoryProgramRepository) Create(_ context.Context, program *models.Program) (int64, error) {
	if _, ok := r.universities.lookup(program.UniversityID); !ok {
		return 0, apperrors.ErrUniversityNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	stored := *program
	stored.ID = r.nextID
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.programs[stored.ID] = &stored

	program.ID, program.CreatedAt, program.UpdatedAt = stored.ID, now, now
	return stored.ID, nil
}

func (r *MemoryProgramRepository) GetByID(_ context.Context, id int64) (*models.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	program, ok := r.programs[id]
	if !ok {
		return nil, apperrors.ErrProgramNotFound
	}
	return r.joined(program), nil
}

func (r *MemoryProgramRepository) List(_ context.Context, filter dto.ProgramFilter, offset uint64, limit int) ([]*models.Program, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []*models.Program{}
	for _, program := range r.programs {
		p := r.joined(program)
		if filter.Country != "" && !strings.EqualFold(p.Country, filter.Country) {
			continue
		}
		if filter.DegreeLevel != "" && string(p.DegreeLevel) != filter.DegreeLevel {
			continue
		}
		if filter.Language != "" && !strings.EqualFold(p.Language, filter.Language) {
			continue
		}
		if filter.UniversityID > 0 && p.UniversityID != filter.UniversityID {
			continue
		}
		if filter.MaxFee > 0 && p.TuitionFee > filter.MaxFee {
			continue
		}
		if filter.Search != "" && !helpers.ContainsFold(p.Name, filter.Search) && !helpers.ContainsFold(p.UniversityName, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name == matched[j].Name {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Name < matched[j].Name
	})

	return page(matched, offset, limit), int64(len(matched)), nil
}

func (r *MemoryProgramRepository) Update(_ context.Context, program *models.Program) error {
	if _, ok := r.universities.lookup(program.UniversityID); !ok {
		return apperrors.ErrUniversityNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.programs[program.ID]
	if !ok {
		return apperrors.ErrProgramNotFound
	}
	stored := *program
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.programs[program.ID] = &stored
	return nil
}

func (r *MemoryProgramRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.programs[id]; !ok {
		return apperrors.ErrProgramNotFound
	}
	delete(r.programs, id)
	return nil
}

func (r *MemoryProgramRepository) CountByUniversity(_ context.Context, universityID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, program := range r.programs {
		if program.UniversityID == universityID {
			count++
		}
	}
	return count, nil
}

// MemoryAgentRepository keeps agents in memory
type MemoryAgentRepository struct {
	mu     sync.RWMutex
	nextID int64
	agents map[int64]*models.Agent
}

// NewMemoryAgentRepository creates a new MemoryAgentRepository
func NewMemoryAgentRepository() *MemoryAgentRepository {
	return &MemoryAgentRepository{agents: make(map[int64]*models.Agent)}
}

func (r *MemoryAgentRepository) Create(_ context.Context, agent *models.Agent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.agents {
		if strings.EqualFold(existing.Email, agent.Email) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}

	r.nextID++
	now := time.Now().UTC()
	stored := *agent
	stored.ID = r.nextID
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.agents[stored.ID] = &stored

	agent.ID, agent.CreatedAt, agent.UpdatedAt = stored.ID, now, now
	return stored.ID, nil
}

func (r *MemoryAgentRepository) GetByID(_ context.Context, id int64) (*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[id]
	if !ok {
		return nil, apperrors.ErrAgentNotFound
	}
	copied := *agent
	return &copied, nil
}

func (r *MemoryAgentRepository) List(_ context.Context, search string) ([]*models.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Agent{}
	for _, agent := range r.agents {
		if search != "" && !helpers.ContainsFold(agent.Name, search) && !helpers.ContainsFold(agent.Email, search) && !helpers.ContainsFold(agent.Country, search) {
			continue
		}
		copied := *agent
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryAgentRepository) Update(_ context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.agents[agent.ID]
	if !ok {
		return apperrors.ErrAgentNotFound
	}
	for id, other := range r.agents {
		if id != agent.ID && strings.EqualFold(other.Email, agent.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	stored := *agent
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.agents[agent.ID] = &stored
	return nil
}

func (r *MemoryAgentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[id]; !ok {
		return apperrors.ErrAgentNotFound
	}
	delete(r.agents, id)
	return nil
}

func (r *MemoryAgentRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, agent := range r.agents {
		if agent.IsActive {
			count++
		}
	}
	return count, nil
}

// MemoryNotificationRepository keeps notifications in memory
type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	nextID        int64
	notifications map[int64]*models.Notification
}

// NewMemoryNotificationRepository creates a new MemoryNotificationRepository
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{notifications: make(map[int64]*models.Notification)}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, notification *models.Notification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *notification
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.notifications[stored.ID] = &stored

	notification.ID, notification.CreatedAt = stored.ID, stored.CreatedAt
	return stored.ID, nil
}

func (r *MemoryNotificationRepository) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notification, ok := r.notifications[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	copied := *notification
	return &copied, nil
}

func (r *MemoryNotificationRepository) ListByUser(_ context.Context, userID int64) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Notification{}
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			copied := *notification
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryNotificationRepository) SetFlags(_ context.Context, id int64, isRead, isImportant bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok {
		return apperrors.ErrNotificationNotFound
	}
	notification.IsRead = isRead
	notification.IsImportant = isImportant
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryNotificationRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return apperrors.ErrNotificationNotFound
	}
	delete(r.notifications, id)
	return nil
}

func (r *MemoryNotificationRepository) DeleteAllByUser(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, notification := range r.notifications {
		if notification.UserID == userID {
			delete(r.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *MemoryNotificationRepository) CountUnread(_ context.Context, userID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

// MemoryMessageRepository keeps messages in memory
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	nextID   int64
	messages map[int64]*models.Message
}

// NewMemoryMessageRepository creates a new MemoryMessageRepository
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{messages: make(map[int64]*models.Message)}
}

func copyMessage(message *models.Message) *models.Message {
	copied := *message
	if message.Attachments != nil {
		copied.Attachments = append([]models.Attachment(nil), message.Attachments...)
	}
	return &copied
}

func (r *MemoryMessageRepository) Create(_ context.Context, message *models.Message) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := copyMessage(message)
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.messages[stored.ID] = stored

	message.ID, message.CreatedAt = stored.ID, stored.CreatedAt
	return stored.ID, nil
}

func (r *MemoryMessageRepository) GetByID(_ context.Context, id int64) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return copyMessage(message), nil
}

func (r *MemoryMessageRepository) ListByConversation(_ context.Context, conversationID, before int64, limit int) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Message{}
	for _, message := range r.messages {
		if message.ConversationID != conversationID {
			continue
		}
		if before > 0 && message.ID >= before {
			continue
		}
		result = append(result, copyMessage(message))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return page(result, 0, limit), nil
}

func (r *MemoryMessageRepository) MarkRead(_ context.Context, conversationID int64, sender models.SenderType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := 0
	for _, message := range r.messages {
		if message.ConversationID == conversationID && message.SenderType == sender && !message.IsRead {
			message.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryMessageRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *MemoryMessageRepository) Conversations(_ context.Context) ([]*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStudent := map[int64]*models.Conversation{}
	for _, message := range r.messages {
		conv, ok := byStudent[message.ConversationID]
		if !ok {
			conv = &models.Conversation{StudentID: message.ConversationID}
			byStudent[message.ConversationID] = conv
		}
		if conv.LastMessage == nil || message.ID > conv.LastMessage.ID {
			conv.LastMessage = copyMessage(message)
		}
		if message.SenderType == models.SenderStudent && !message.IsRead {
			conv.UnreadCount++
		}
	}

	result := make([]*models.Conversation, 0, len(byStudent))
	for _, conv := range byStudent {
		result = append(result, conv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastMessage.ID > result[j].LastMessage.ID })
	return result, nil
}
