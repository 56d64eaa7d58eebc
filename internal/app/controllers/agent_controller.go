package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/middleware"
	"github.com/yigit/edupath/internal/pkg/i18n"
)

// AgentController manages partner recruitment agents
type AgentController struct {
	agentService *services.AgentService
	logger       zerolog.Logger
}

// NewAgentController creates a new AgentController
func NewAgentController(agentService *services.AgentService, logger zerolog.Logger) *AgentController {
	return &AgentController{
		agentService: agentService,
		logger:       logger,
	}
}

// List returns agents
// @Summary List agents
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or country"
// @Success 200 {object} dto.APIResponse{data=[]models.Agent}
// @Router /admin/agents [get]
func (c *AgentController) List(ctx *gin.Context) {
	agents, err := c.agentService.List(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(agents))
}

// Get returns one agent
// @Summary Get an agent
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Success 200 {object} dto.APIResponse{data=models.Agent}
// @Failure 404 {object} dto.ErrorResponse "Agent not found"
// @Router /admin/agents/{id} [get]
func (c *AgentController) Get(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	agent, err := c.agentService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(agent))
}

// Create adds an agent
// @Summary Create an agent
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AgentRequest true "Agent"
// @Success 201 {object} dto.APIResponse{data=models.Agent}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/agents [post]
func (c *AgentController) Create(ctx *gin.Context) {
	var req dto.AgentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	agent, err := c.agentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("agentID", agent.ID).Msg("Agent created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(agent))
}

// Update edits an agent
// @Summary Update an agent
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Param request body dto.AgentRequest true "Agent"
// @Success 200 {object} dto.APIResponse{data=models.Agent}
// @Failure 404 {object} dto.ErrorResponse "Agent not found"
// @Router /admin/agents/{id} [put]
func (c *AgentController) Update(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req dto.AgentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	agent, err := c.agentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(agent))
}

// Delete removes an agent
// @Summary Delete an agent
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agent ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Agent not found"
// @Router /admin/agents/{id} [delete]
func (c *AgentController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.agentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(i18n.T(middleware.LangFrom(ctx), i18n.KeyDeleted)))
}
