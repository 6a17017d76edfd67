package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/msgboard/internal/store"
)

// LikeMessage records that userID likes the message. A user can like a message once.
func (s *Service) LikeMessage(ctx context.Context, userID int64, messageID string) (*store.Like, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	like := &store.Like{
		ID:        s.newID(),
		MessageID: messageID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}

	// The existence check and insert share a transaction so a like cannot
	// land on a message deleted in between.
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetMessage(ctx, messageID, false); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMessageNotFound
			}
			return fmt.Errorf("get message: %w", err)
		}
		if err := tx.CreateLike(ctx, like); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrAlreadyLiked
			}
			return fmt.Errorf("create like: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

// UnlikeMessage removes the like userID left on the message.
func (s *Service) UnlikeMessage(ctx context.Context, userID int64, messageID string) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if messageID == "" {
		return ErrLikeNotFound
	}

	n, err := s.repo.DeleteLikes(ctx, store.LikeFilter{MessageID: messageID, UserID: userID})
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if n == 0 {
		return ErrLikeNotFound
	}
	return nil
}
