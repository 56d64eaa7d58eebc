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
	"github.com/yigit/edupath/internal/pkg/i18n"
	"github.com/yigit/edupath/internal/pkg/websocket"
)

// MessageController serves the messaging panel. A conversation is identified
// by the ID of the student it belongs to.
type MessageController struct {
	messageService *services.MessageService
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService *services.MessageService, logger zerolog.Logger) *MessageController {
	return &MessageController{
		messageService: messageService,
		logger:         logger,
	}
}

// List returns a page of conversation messages, newest first
// @Summary List conversation messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation (student) ID"
// @Param before query int false "Only messages older than this ID"
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} dto.APIResponse{data=[]models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not your conversation"
// @Router /conversations/{id}/messages [get]
func (c *MessageController) List(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	conversationID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var query dto.MessageQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	messages, err := c.messageService.List(ctx.Request.Context(), actor, conversationID, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// Send posts a message into a conversation
// @Summary Send a message
// @Description Students write into their own conversation, staff into any student's. A student message may trigger an automatic reply.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation (student) ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.Message}
// @Failure 400 {object} dto.ErrorResponse "Empty message"
// @Failure 403 {object} dto.ErrorResponse "Not your conversation"
// @Router /conversations/{id}/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	conversationID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.Send(ctx.Request.Context(), actor, conversationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// MarkRead marks the other side's messages as read
// @Summary Mark a conversation as read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation (student) ID"
// @Success 200 {object} dto.APIResponse
// @Router /conversations/{id}/read [post]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	conversationID, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	changed, err := c.messageService.MarkRead(ctx.Request.Context(), actor, conversationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"marked": changed}))
}

// Delete removes a message
// @Summary Delete a message
// @Description Students may delete their own messages, staff any message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not your message"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /messages/{id} [delete]
func (c *MessageController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.messageService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(i18n.T(actor.Lang, i18n.KeyDeleted)))
}

// UploadAttachment stores a file to be attached to the next message
// @Summary Upload a message attachment
// @Tags messages
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Success 201 {object} dto.APIResponse{data=models.Attachment}
// @Failure 400 {object} dto.ErrorResponse "Unsupported file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /messages/attachments [post]
func (c *MessageController) UploadAttachment(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	filename, file, ok := formFile(ctx, "file")
	if !ok {
		return
	}
	defer file.Close()

	attachment, err := c.messageService.UploadAttachment(ctx.Request.Context(), actor, filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(attachment))
}

// Conversations lists every student conversation for staff
// @Summary List conversations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Conversation}
// @Router /admin/conversations [get]
func (c *MessageController) Conversations(ctx *gin.Context) {
	conversations, err := c.messageService.Conversations(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversations))
}

// Authorize resolves the realtime subscription of an authenticated request.
// Students always join their own conversation; staff pick one with ?conversationId=.
func (c *MessageController) Authorize(ctx *gin.Context) (websocket.Subscription, bool) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return websocket.Subscription{}, false
	}

	conversationID := actor.UserID
	if raw := ctx.Query("conversationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid conversationId"))
			return websocket.Subscription{}, false
		}
		conversationID = id
	} else if actor.IsStaff() {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("conversationId is required"))
		return websocket.Subscription{}, false
	}

	if !actor.IsStaff() && conversationID != actor.UserID {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return websocket.Subscription{}, false
	}

	return websocket.Subscription{
		Room:           services.ConversationRoom(conversationID),
		UserID:         actor.UserID,
		Role:           string(actor.Role),
		ConversationID: conversationID,
	}, true
}
