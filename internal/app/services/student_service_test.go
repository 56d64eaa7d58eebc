package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

func TestStudents_ListAndDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.submit(t)
	s := NewStudentService(f.repos.Users, f.repos.Applications)

	resp, err := s.List(ctx, dto.StudentFilter{Search: "ahmed"})
	require.NoError(t, err)
	students := resp.Items.([]*models.User)
	require.Len(t, students, 1)
	assert.Equal(t, f.student.ID, students[0].ID)
	assert.Equal(t, int64(1), resp.Pagination.TotalItems)

	detail, err := s.Get(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, "ahmed@example.com", detail.Student.Email)
	require.Len(t, detail.Applications, 1)
	assert.Equal(t, app.ID, detail.Applications[0].ID)

	_, err = s.Get(ctx, f.admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
