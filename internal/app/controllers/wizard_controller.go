package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/middleware"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

// WizardController drives the five-step application wizard
type WizardController struct {
	wizardService *services.WizardService
	logger        zerolog.Logger
}

// NewWizardController creates a new WizardController
func NewWizardController(wizardService *services.WizardService, logger zerolog.Logger) *WizardController {
	return &WizardController{
		wizardService: wizardService,
		logger:        logger,
	}
}

// Start opens a new draft
// @Summary Start an application draft
// @Description Creates a draft at step 1, pre-filled from the student account
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=models.WizardDraft}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /wizard/drafts [post]
func (c *WizardController) Start(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	draft, err := c.wizardService.Start(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(draft))
}

// Get returns a draft
// @Summary Get an application draft
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dto.APIResponse{data=models.WizardDraft}
// @Failure 404 {object} dto.ErrorResponse "Draft not found"
// @Router /wizard/drafts/{id} [get]
func (c *WizardController) Get(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	draft, err := c.wizardService.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(draft))
}

// SaveSection stores the form section of one step
// @Summary Save a wizard step
// @Description Merges the JSON body into the section of the given step (1 personal, 2 documents, 3 education, 4 preferences). Steps ahead of the current one are locked.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param step path int true "Step number"
// @Param request body object true "Section content"
// @Success 200 {object} dto.APIResponse{data=models.WizardDraft}
// @Failure 400 {object} dto.ErrorResponse "Invalid section"
// @Failure 422 {object} dto.ErrorResponse "Step locked"
// @Router /wizard/drafts/{id}/steps/{step} [put]
func (c *WizardController) SaveSection(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	step, err := strconv.Atoi(ctx.Param("step"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid step"))
		return
	}

	payload, err := ctx.GetRawData()
	if err != nil || len(payload) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Request body is required"))
		return
	}

	draft, err := c.wizardService.SaveSection(ctx.Request.Context(), actor, ctx.Param("id"), step, payload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(draft))
}

// AttachDocument uploads a photo or document into the draft
// @Summary Upload a wizard document
// @Description Kinds: photo, passport, diploma, transcript, language, other
// @Tags wizard
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param kind path string true "Document kind"
// @Param file formData file true "File"
// @Success 200 {object} dto.APIResponse{data=dto.AttachDocumentResponse}
// @Failure 400 {object} dto.ErrorResponse "Unsupported file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /wizard/drafts/{id}/documents/{kind} [post]
func (c *WizardController) AttachDocument(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	filename, file, ok := formFile(ctx, "file")
	if !ok {
		return
	}
	defer file.Close()

	draft, stored, err := c.wizardService.AttachDocument(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("kind"), filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Debug().Str("draftID", draft.ID).Str("kind", ctx.Param("kind")).Str("key", stored.Key).Msg("Wizard document attached")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AttachDocumentResponse{Draft: draft, File: stored}))
}

// Next validates the current step and advances
// @Summary Go to the next step
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dto.APIResponse{data=models.WizardDraft}
// @Failure 422 {object} dto.ErrorResponse "Step incomplete, photo or passport missing"
// @Router /wizard/drafts/{id}/next [post]
func (c *WizardController) Next(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	draft, err := c.wizardService.Next(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(draft))
}

// Back returns to the previous step
// @Summary Go to the previous step
// @Tags wizard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dto.APIResponse{data=models.WizardDraft}
// @Router /wizard/drafts/{id}/back [post]
func (c *WizardController) Back(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	draft, err := c.wizardService.Back(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(draft))
}

// Submit sends the reviewed draft
// @Summary Submit the application
// @Description Only allowed at the review step with the terms accepted. A partial_success outcome means the application was saved locally and will be forwarded later.
// @Tags wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body dto.SubmitDraftRequest true "Terms acceptance"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse}
// @Failure 422 {object} dto.ErrorResponse "Not at review or terms not accepted"
// @Failure 502 {object} dto.ErrorResponse "Rejected by the admissions service"
// @Router /wizard/drafts/{id}/submit [post]
func (c *WizardController) Submit(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.SubmitDraftRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.wizardService.Submit(ctx.Request.Context(), actor, ctx.Param("id"), req.AgreeTerms)
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
