package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

// LikeHandlers provides HTTP handlers for message likes.
type LikeHandlers struct {
	messageService *messages.Service
	log            *zerolog.Logger
}

// NewLikeHandlers creates a new like handlers instance.
func NewLikeHandlers(messageService *messages.Service, logger *zerolog.Logger) *LikeHandlers {
	return &LikeHandlers{
		messageService: messageService,
		log:            logger,
	}
}

// LikeMessage records a like from the caller.
// POST /messages/:id/likes
func (h *LikeHandlers) LikeMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	like, err := h.messageService.LikeMessage(c.Request.Context(), principal.UserID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.log, err, "like message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": likeResponse(like)})
}

// UnlikeMessage removes the caller's like.
// DELETE /messages/:id/likes
func (h *LikeHandlers) UnlikeMessage(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	messageID := c.Param("id")
	if err := h.messageService.UnlikeMessage(c.Request.Context(), principal.UserID, messageID); err != nil {
		writeServiceError(c, h.log, err, "unlike message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": messageID})
}
