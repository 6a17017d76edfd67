package http

import (
	"time"

	"github.com/samber/lo"

	"github.com/vovakirdan/msgboard/internal/store"
)

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        string         `json:"id"`
	UserID    int64          `json:"user_id"`
	Text      string         `json:"text"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Likes     []LikeResponse `json:"likes"`
}

// LikeResponse represents a like in API responses.
type LikeResponse struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	UserID    int64  `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

func messageResponse(msg *store.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Text:      msg.Text,
		CreatedAt: formatTime(msg.CreatedAt),
		UpdatedAt: formatTime(msg.UpdatedAt),
		Likes:     lo.Map(msg.Likes, func(l *store.Like, _ int) LikeResponse { return likeResponse(l) }),
	}
}

func messageResponses(msgs []*store.Message) []MessageResponse {
	return lo.Map(msgs, func(m *store.Message, _ int) MessageResponse { return messageResponse(m) })
}

func likeResponse(like *store.Like) LikeResponse {
	return LikeResponse{
		ID:        like.ID,
		MessageID: like.MessageID,
		UserID:    like.UserID,
		CreatedAt: formatTime(like.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
