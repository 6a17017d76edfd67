package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists the fields a payload failed on.
type ValidationErrorResponse struct {
	Errors []messages.FieldError `json:"errors"`
}

// writeServiceError maps a messages service error onto a status code and body.
// Anything unclassified is logged and reported as a 500.
func writeServiceError(c *gin.Context, logger *zerolog.Logger, err error, op string) {
	if verr, ok := messages.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, messages.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, messages.ErrNotFoundOrForbidden):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message does not exist"})
	case errors.Is(err, messages.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "message not found"})
	case errors.Is(err, messages.ErrAlreadyLiked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "message already liked"})
	case errors.Is(err, messages.ErrLikeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "like not found"})
	default:
		logger.Error().Err(err).Str("op", op).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
