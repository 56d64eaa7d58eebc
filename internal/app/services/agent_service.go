package services

import (
	"context"
	"strings"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
)

// AgentService manages partner agents
type AgentService struct {
	agentRepo repositories.AgentRepository
}

// NewAgentService creates a new AgentService
func NewAgentService(agentRepo repositories.AgentRepository) *AgentService {
	return &AgentService{agentRepo: agentRepo}
}

func agentFromRequest(req *dto.AgentRequest, agent *models.Agent) {
	agent.Name = strings.TrimSpace(req.Name)
	agent.Email = strings.ToLower(strings.TrimSpace(req.Email))
	agent.Phone = req.Phone
	agent.Country = strings.TrimSpace(req.Country)
	agent.CommissionRate = req.CommissionRate
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}
}

// List returns agents matching search
func (s *AgentService) List(ctx context.Context, search string) ([]*models.Agent, error) {
	return s.agentRepo.List(ctx, strings.TrimSpace(search))
}

// Get returns one agent
func (s *AgentService) Get(ctx context.Context, id int64) (*models.Agent, error) {
	return s.agentRepo.GetByID(ctx, id)
}

// Create adds an agent; new agents are active unless stated otherwise
func (s *AgentService) Create(ctx context.Context, req *dto.AgentRequest) (*models.Agent, error) {
	agent := &models.Agent{IsActive: true}
	agentFromRequest(req, agent)
	if _, err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// Update replaces an agent's data
func (s *AgentService) Update(ctx context.Context, id int64, req *dto.AgentRequest) (*models.Agent, error) {
	agent, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	agentFromRequest(req, agent)
	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, err
	}
	return s.agentRepo.GetByID(ctx, id)
}

// Delete removes an agent
func (s *AgentService) Delete(ctx context.Context, id int64) error {
	return s.agentRepo.Delete(ctx, id)
}
