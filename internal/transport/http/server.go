package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/msgboard/internal/auth"
	"github.com/vovakirdan/msgboard/internal/config"
	"github.com/vovakirdan/msgboard/internal/service/messages"
)

// NewServer builds the HTTP server with all API routes.
func NewServer(authService *auth.Service, messageService *messages.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(authService, messageService, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter registers routes on a fresh gin engine.
func NewRouter(authService *auth.Service, messageService *messages.Service, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))
	router.GET("/health", healthHandler)

	requireAuth := AuthMiddleware(authService, logger)

	apiHandlers := NewAPIHandlers(authService, logger)
	router.POST("/auth/register", apiHandlers.Register)
	router.POST("/auth/login", apiHandlers.Login)

	userHandlers := NewUserHandlers(authService, logger)
	router.GET("/users/me", requireAuth, userHandlers.Me)

	messageHandlers := NewMessageHandlers(messageService, logger)
	likeHandlers := NewLikeHandlers(messageService, logger)

	msgs := router.Group("/messages")
	msgs.POST("", requireAuth, messageHandlers.CreateMessage)
	msgs.GET("", messageHandlers.ListMessages)
	msgs.GET("/:id", messageHandlers.GetMessage)
	msgs.PATCH("/:id", requireAuth, messageHandlers.UpdateMessage)
	msgs.DELETE("/:id", requireAuth, messageHandlers.DeleteMessage)
	msgs.POST("/:id/likes", requireAuth, likeHandlers.LikeMessage)
	msgs.DELETE("/:id/likes", requireAuth, likeHandlers.UnlikeMessage)

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
