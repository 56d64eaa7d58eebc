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

// ApplicationController serves applications to students and the back-office
type ApplicationController struct {
	applicationService *services.ApplicationService
	submissionService  *services.SubmissionService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService, submissionService *services.SubmissionService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		submissionService:  submissionService,
		logger:             logger,
	}
}

// Submit accepts a completed application form in one request
// @Summary Submit an application
// @Description Saves the application and forwards it to the admissions service. When the service is unreachable the outcome is partial_success and the application is kept locally.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitApplicationRequest true "Application form"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 502 {object} dto.ErrorResponse "Rejected by the admissions service"
// @Router /applications [post]
func (c *ApplicationController) Submit(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.submissionService.Submit(ctx.Request.Context(), actor, services.SubmissionInput{
		FormData:     req.FormData,
		UniversityID: req.UniversityID,
		ProgramID:    req.ProgramID,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		PinCode:      req.PinCode,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Message:   resp.Message,
		Data:      resp,
		Timestamp: nowUTC(),
	})
}

// ListMine returns the applications of the current student
// @Summary List my applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Application}
// @Router /applications/mine [get]
func (c *ApplicationController) ListMine(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	applications, err := c.applicationService.ListForStudent(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(applications))
}

// Get returns one application; students only see their own
// @Summary Get an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID" example(APP-20250314-1042)
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	application, err := c.applicationService.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(application))
}

// List returns all applications for the back-office
// @Summary List applications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param search query string false "ID, student, university or program"
// @Param studentId query int false "Student ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	var filter dto.ApplicationFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	resp, err := c.applicationService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateStatus moves an application through its lifecycle
// @Summary Update application status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admin/applications/{id}/status [patch]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	application, err := c.applicationService.UpdateStatus(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("applicationID", application.ID).Str("status", string(application.Status)).Int64("by", actor.UserID).Msg("Application status updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(application))
}

// UpdateDocument sets the review state of a checklist document
// @Summary Update a checklist document
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param name path string true "Document name" Enums(passport, photo, diploma, transcript, language_certificate)
// @Param request body dto.UpdateDocumentRequest true "Document status"
// @Success 200 {object} dto.APIResponse{data=models.Application}
// @Failure 404 {object} dto.ErrorResponse "Application or document not found"
// @Router /admin/applications/{id}/documents/{name} [patch]
func (c *ApplicationController) UpdateDocument(ctx *gin.Context) {
	var req dto.UpdateDocumentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	application, err := c.applicationService.UpdateDocument(ctx.Request.Context(), ctx.Param("id"), ctx.Param("name"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(application))
}

// Delete removes an application from both lists
// @Summary Delete an application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admin/applications/{id} [delete]
func (c *ApplicationController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	if err := c.applicationService.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(i18n.T(actor.Lang, i18n.KeyDeleted)))
}
