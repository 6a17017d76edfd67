package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/auth"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(authService *auth.Service, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		authService: authService,
		log:         logger,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Me returns the account of the authenticated principal.
// GET /users/me
func (h *UserHandlers) Me(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.log.Error().Msg("principal not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.authService.User(c.Request.Context(), principal)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", principal.UserID).Msg("failed to load user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: formatTime(user.CreatedAt),
	})
}
