package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/middleware"
)

// ContactController receives the public contact form
type ContactController struct {
	contactService *services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contactService *services.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit forwards an inquiry to the agency mailbox
// @Summary Send a contact inquiry
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Inquiry"
// @Success 202 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /contact [post]
func (c *ContactController) Submit(ctx *gin.Context) {
	var req dto.ContactRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	ack, err := c.contactService.Submit(ctx.Request.Context(), &req, middleware.LangFrom(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, dto.NewMessageResponse(ack))
}
