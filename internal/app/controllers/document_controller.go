package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/middleware"
)

// DocumentController stores standalone uploads
type DocumentController struct {
	documentService *services.DocumentService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService *services.DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

// Upload stores a document and returns its public URL
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF or image"
// @Success 201 {object} dto.APIResponse{data=filestorage.StoredFile}
// @Failure 400 {object} dto.ErrorResponse "Unsupported file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	filename, file, ok := formFile(ctx, "file")
	if !ok {
		return
	}
	defer file.Close()

	stored, err := c.documentService.Upload(ctx.Request.Context(), actor, filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(stored))
}
