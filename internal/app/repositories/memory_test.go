package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	student := &models.User{Email: "amina@example.com", FirstName: "Amina", LastName: "Haddad", RoleType: models.RoleStudent}
	id, err := repo.Create(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, id, student.ID)

	_, err = repo.Create(ctx, &models.User{Email: "AMINA@example.com", RoleType: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = repo.Create(ctx, &models.User{Email: "admin@example.com", FirstName: "Root", RoleType: models.RoleAdmin})
	require.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "Amina@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	found.FirstName = "changed"
	again, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Amina", again.FirstName, "reads are copies")

	users, total, err := repo.ListByRole(ctx, models.RoleStudent, "hadd", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, users, 1)

	count, err := repo.CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestMemoryProgramRepository_JoinsAndFilters(t *testing.T) {
	ctx := context.Background()
	universities := NewMemoryUniversityRepository()
	programs := NewMemoryProgramRepository(universities)

	istanbul := &models.University{Name: "Istanbul University", Country: "Turkey", City: "Istanbul"}
	_, err := universities.Create(ctx, istanbul)
	require.NoError(t, err)
	cairo := &models.University{Name: "Cairo University", Country: "Egypt", City: "Cairo"}
	_, err = universities.Create(ctx, cairo)
	require.NoError(t, err)

	_, err = universities.Create(ctx, &models.University{Name: "istanbul university"})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	for _, p := range []*models.Program{
		{UniversityID: istanbul.ID, Name: "Computer Engineering", DegreeLevel: models.DegreeBachelor, Language: "English", TuitionFee: 3000},
		{UniversityID: istanbul.ID, Name: "Medicine", DegreeLevel: models.DegreeBachelor, Language: "Turkish", TuitionFee: 9000},
		{UniversityID: cairo.ID, Name: "Architecture", DegreeLevel: models.DegreeMaster, Language: "Arabic", TuitionFee: 2000},
	} {
		_, err := programs.Create(ctx, p)
		require.NoError(t, err)
	}

	_, err = programs.Create(ctx, &models.Program{UniversityID: 404, Name: "Ghost"})
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)

	list, total, err := programs.List(ctx, dto.ProgramFilter{Country: "turkey", MaxFee: 5000}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Computer Engineering", list[0].Name)
	assert.Equal(t, "Istanbul University", list[0].UniversityName)
	assert.Equal(t, "Turkey", list[0].Country)

	list, total, err = programs.List(ctx, dto.ProgramFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Computer Engineering", list[0].Name, "sorted by name")

	count, err := programs.CountByUniversity(ctx, istanbul.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	countries, err := universities.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt", "Turkey"}, countries)
}

func TestMemoryNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNotificationRepository()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &models.Notification{UserID: 5, Title: "t", Category: models.CategoryApplication})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Notification{UserID: 6, Title: "other"})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Greater(t, list[0].ID, list[1].ID)

	require.NoError(t, repo.SetFlags(ctx, list[0].ID, true, true))
	unread, err := repo.CountUnread(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	changed, err := repo.MarkAllRead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = repo.MarkAllRead(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, changed)

	deleted, err := repo.DeleteAllByUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	assert.ErrorIs(t, repo.SetFlags(ctx, 999, true, false), apperrors.ErrNotificationNotFound)
}

func TestMemoryMessageRepository_Conversations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	send := func(conv int64, sender models.SenderType, text string) {
		_, err := repo.Create(ctx, &models.Message{ConversationID: conv, SenderID: conv, SenderType: sender, Text: text})
		require.NoError(t, err)
	}
	send(5, models.SenderStudent, "hello")
	send(5, models.SenderStudent, "anyone?")
	send(7, models.SenderStudent, "hi")
	send(5, models.SenderAdmin, "yes")

	convs, err := repo.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, int64(5), convs[0].StudentID)
	assert.Equal(t, "yes", convs[0].LastMessage.Text)
	assert.Equal(t, 2, convs[0].UnreadCount)

	changed, err := repo.MarkRead(ctx, 5, models.SenderStudent)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	page, err := repo.ListByConversation(ctx, 5, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "yes", page[0].Text)

	older, err := repo.ListByConversation(ctx, 5, page[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "hello", older[0].Text)
}
