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

// CatalogController handles universities and programs
type CatalogController struct {
	catalogService services.CatalogService
	logger         zerolog.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService, logger zerolog.Logger) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListUniversities returns universities
// @Summary List universities
// @Tags catalog
// @Produce json
// @Param country query string false "Country"
// @Param search query string false "Name or city"
// @Success 200 {object} dto.APIResponse{data=[]models.University}
// @Router /universities [get]
func (c *CatalogController) ListUniversities(ctx *gin.Context) {
	var filter dto.UniversityFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	universities, err := c.catalogService.ListUniversities(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(universities))
}

// GetUniversity returns one university
// @Summary Get a university
// @Tags catalog
// @Produce json
// @Param id path int true "University ID"
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Router /universities/{id} [get]
func (c *CatalogController) GetUniversity(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	university, err := c.catalogService.GetUniversity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(university))
}

// Countries returns the countries that have universities
// @Summary List countries
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /countries [get]
func (c *CatalogController) Countries(ctx *gin.Context) {
	countries, err := c.catalogService.Countries(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(countries))
}

// ListPrograms returns a filtered page of programs
// @Summary List programs
// @Tags catalog
// @Produce json
// @Param country query string false "Country"
// @Param degreeLevel query string false "Degree level" Enums(bachelor, master, phd, diploma, language)
// @Param language query string false "Teaching language"
// @Param universityId query int false "University ID"
// @Param maxFee query number false "Maximum tuition fee"
// @Param search query string false "Program or university name"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /programs [get]
func (c *CatalogController) ListPrograms(ctx *gin.Context) {
	var filter dto.ProgramFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	resp, err := c.catalogService.ListPrograms(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetProgram returns one program
// @Summary Get a program
// @Tags catalog
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse{data=models.Program}
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{id} [get]
func (c *CatalogController) GetProgram(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	program, err := c.catalogService.GetProgram(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(program))
}

// CreateUniversity adds a university
// @Summary Create a university
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UniversityRequest true "University"
// @Success 201 {object} dto.APIResponse{data=models.University}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /admin/universities [post]
func (c *CatalogController) CreateUniversity(ctx *gin.Context) {
	var req dto.UniversityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	university, err := c.catalogService.CreateUniversity(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("universityID", university.ID).Str("name", university.Name).Msg("University created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(university))
}

// UpdateUniversity edits a university
// @Summary Update a university
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Param request body dto.UniversityRequest true "University"
// @Success 200 {object} dto.APIResponse{data=models.University}
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Router /admin/universities/{id} [put]
func (c *CatalogController) UpdateUniversity(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UniversityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	university, err := c.catalogService.UpdateUniversity(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(university))
}

// DeleteUniversity removes a university without programs
// @Summary Delete a university
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "University ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "University has programs"
// @Router /admin/universities/{id} [delete]
func (c *CatalogController) DeleteUniversity(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteUniversity(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(i18n.T(middleware.LangFrom(ctx), i18n.KeyDeleted)))
}

// CreateProgram adds a program
// @Summary Create a program
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProgramRequest true "Program"
// @Success 201 {object} dto.APIResponse{data=models.Program}
// @Failure 404 {object} dto.ErrorResponse "University not found"
// @Router /admin/programs [post]
func (c *CatalogController) CreateProgram(ctx *gin.Context) {
	var req dto.ProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	program, err := c.catalogService.CreateProgram(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(program))
}

// UpdateProgram edits a program
// @Summary Update a program
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.ProgramRequest true "Program"
// @Success 200 {object} dto.APIResponse{data=models.Program}
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /admin/programs/{id} [put]
func (c *CatalogController) UpdateProgram(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	program, err := c.catalogService.UpdateProgram(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(program))
}

// DeleteProgram removes a program
// @Summary Delete a program
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /admin/programs/{id} [delete]
func (c *CatalogController) DeleteProgram(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteProgram(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(i18n.T(middleware.LangFrom(ctx), i18n.KeyDeleted)))
}
