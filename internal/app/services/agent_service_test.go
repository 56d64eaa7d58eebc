package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

func TestAgents_CRUD(t *testing.T) {
	s := NewAgentService(repositories.NewMemoryAgentRepository())
	ctx := context.Background()

	agent, err := s.Create(ctx, &dto.AgentRequest{Name: "Gulf Partners", Email: "Info@Gulf.example", Country: "Jordan", CommissionRate: 12.5})
	require.NoError(t, err)
	assert.True(t, agent.IsActive)
	assert.Equal(t, "info@gulf.example", agent.Email)

	inactive := false
	updated, err := s.Update(ctx, agent.ID, &dto.AgentRequest{Name: "Gulf Partners", Email: "info@gulf.example", Country: "Kuwait", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Kuwait", updated.Country)

	_, err = s.Create(ctx, &dto.AgentRequest{Name: "Copy", Email: "info@gulf.example", Country: "Iraq"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	found, err := s.List(ctx, "kuwait")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, s.Delete(ctx, agent.ID))
	_, err = s.Get(ctx, agent.ID)
	assert.ErrorIs(t, err, apperrors.ErrAgentNotFound)
}
