package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

// MessageHandlers provides HTTP handlers for the messages resource.
type MessageHandlers struct {
	messageService *messages.Service
	log            *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(messageService *messages.Service, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		messageService: messageService,
		log:            logger,
	}
}

// CreateMessage creates a message owned by the caller.
// POST /messages
func (h *MessageHandlers) CreateMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var in messages.CreateMessageInput
	if !h.bindBody(c, &in, "create message") {
		return
	}

	msg, err := h.messageService.CreateMessage(c.Request.Context(), principal.UserID, in)
	if err != nil {
		writeServiceError(c, h.log, err, "create message")
		return
	}

	h.log.Info().Str("message_id", msg.ID).Int64("user_id", principal.UserID).Msg("message created")
	c.JSON(http.StatusCreated, gin.H{"message": messageResponse(msg)})
}

// ListMessages returns a page of messages with likes.
// GET /messages?limit=&offset=
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")

	msgs, err := h.messageService.ListMessages(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, h.log, err, "list messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messageResponses(msgs)})
}

// GetMessage returns one message with likes, or null when it does not exist.
// GET /messages/:id
func (h *MessageHandlers) GetMessage(c *gin.Context) {
	msg, err := h.messageService.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, messages.ErrMessageNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": nil})
			return
		}
		writeServiceError(c, h.log, err, "get message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": messageResponse(msg)})
}

// UpdateMessage applies a partial update and reports how many messages changed.
// PATCH /messages/:id
func (h *MessageHandlers) UpdateMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var patch messages.MessagePatch
	if !h.bindBody(c, &patch, "update message") {
		return
	}

	affected, err := h.messageService.UpdateMessage(c.Request.Context(), principal.UserID, c.Param("id"), patch)
	if err != nil {
		writeServiceError(c, h.log, err, "update message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// DeleteMessage removes a message owned by the caller along with its likes.
// DELETE /messages/:id
func (h *MessageHandlers) DeleteMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	id, err := h.messageService.DeleteMessage(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.log, err, "delete message")
		return
	}

	h.log.Info().Str("message_id", id).Int64("user_id", principal.UserID).Msg("message deleted")
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// bindBody decodes the JSON body into dst and writes the error response when it
// cannot. An empty body leaves dst zero so the service validator reports the
// missing fields. A value of the wrong JSON type is reported against its field.
func (h *MessageHandlers) bindBody(c *gin.Context, dst any, op string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: []messages.FieldError{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.String(),
		}}})
		return false
	}

	h.log.Debug().Err(err).Str("op", op).Msg("invalid request body")
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	return false
}

// queryInt parses an integer query parameter. Missing or malformed values
// read as zero so the service falls back to its defaults.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
