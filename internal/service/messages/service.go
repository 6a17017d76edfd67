//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks github.com/vovakirdan/msgboard/internal/service/messages Repository
package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/msgboard/internal/store"
	"github.com/vovakirdan/msgboard/internal/utils"
)

// UpdatePolicy decides who may patch a message.
type UpdatePolicy string

const (
	// UpdateAnyone lets every authenticated user patch any message.
	UpdateAnyone UpdatePolicy = "any"
	// UpdateOwnerOnly scopes patches to messages owned by the requester.
	UpdateOwnerOnly UpdatePolicy = "owner"
)

// LikeCleanup decides which likes are removed together with a message.
type LikeCleanup string

const (
	// CleanupAllLikes removes every like on the deleted message.
	CleanupAllLikes LikeCleanup = "all"
	// CleanupRequesterLikes removes only the likes made by the requester.
	CleanupRequesterLikes LikeCleanup = "requester"
)

// Options tunes pagination and write policies.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	UpdatePolicy UpdatePolicy
	LikeCleanup  LikeCleanup
	// AtomicDelete runs like and message removal in one transaction.
	AtomicDelete bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		DefaultLimit: 100,
		MaxLimit:     100,
		UpdatePolicy: UpdateAnyone,
		LikeCleanup:  CleanupAllLikes,
		AtomicDelete: true,
	}
}

// Repository is the storage the service coordinates.
type Repository interface {
	store.MessageStore
	store.LikeStore

	InTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// Service provides message and like business logic.
type Service struct {
	repo  Repository
	opts  Options
	now   func() time.Time
	newID func() string
}

// New creates a new message Service.
func New(repo Repository, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if opts.UpdatePolicy == "" {
		opts.UpdatePolicy = defaults.UpdatePolicy
	}
	if opts.LikeCleanup == "" {
		opts.LikeCleanup = defaults.LikeCleanup
	}

	return &Service{
		repo:  repo,
		opts:  opts,
		now:   time.Now,
		newID: utils.NewID,
	}
}

// Page normalizes client pagination. Non-positive limits and negative offsets
// fall back to the defaults; limits above MaxLimit are capped.
func (s *Service) Page(limit, offset int) store.Page {
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return store.Page{Limit: limit, Offset: offset}
}

// CreateMessage stores a new message owned by userID.
func (s *Service) CreateMessage(ctx context.Context, userID int64, in CreateMessageInput) (*store.Message, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	msg := &store.Message{
		ID:        s.newID(),
		UserID:    userID,
		Text:      in.Text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	msg.Likes = []*store.Like{}
	return msg, nil
}

// ListMessages returns a page of messages with their likes.
func (s *Service) ListMessages(ctx context.Context, limit, offset int) ([]*store.Message, error) {
	messages, err := s.repo.ListMessages(ctx, s.Page(limit, offset), true)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// GetMessage returns a single message with its likes.
func (s *Service) GetMessage(ctx context.Context, id string) (*store.Message, error) {
	msg, err := s.repo.GetMessage(ctx, id, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// UpdateMessage applies patch to the message and returns the number of rows changed.
// A missing message is not an error: the count is simply zero.
func (s *Service) UpdateMessage(ctx context.Context, userID int64, id string, patch MessagePatch) (int64, error) {
	if userID <= 0 {
		return 0, ErrUnauthorized
	}

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		patch.Text = &text
	}
	if err := validateStruct(patch); err != nil {
		return 0, err
	}
	if id == "" || patch.Text == nil {
		return 0, nil
	}

	filter := store.MessageFilter{ID: id}
	if s.opts.UpdatePolicy == UpdateOwnerOnly {
		filter.UserID = userID
	}

	n, err := s.repo.UpdateMessages(ctx, filter, store.MessagePatch{Text: patch.Text})
	if err != nil {
		return 0, fmt.Errorf("update message: %w", err)
	}
	return n, nil
}

// DeleteMessage removes the message owned by userID together with its likes.
// Likes are always removed before the message itself.
func (s *Service) DeleteMessage(ctx context.Context, userID int64, id string) (string, error) {
	if userID <= 0 {
		return "", ErrUnauthorized
	}
	if id == "" {
		return "", ErrNotFoundOrForbidden
	}

	remove := func(tx store.Tx) error {
		likes := store.LikeFilter{MessageID: id}
		if s.opts.LikeCleanup == CleanupRequesterLikes {
			likes.UserID = userID
		}
		if _, err := tx.DeleteLikes(ctx, likes); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}

		n, err := tx.DeleteMessages(ctx, store.MessageFilter{ID: id, UserID: userID})
		if err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		if n == 0 {
			return ErrNotFoundOrForbidden
		}
		return nil
	}

	var err error
	if s.opts.AtomicDelete {
		err = s.repo.InTx(ctx, remove)
	} else {
		// Without a transaction nothing undoes step one, so other users'
		// likes are only touched once ownership is confirmed.
		if s.opts.LikeCleanup == CleanupAllLikes {
			if err := s.checkOwner(ctx, userID, id); err != nil {
				return "", err
			}
		}
		err = remove(s.repo)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) checkOwner(ctx context.Context, userID int64, id string) error {
	msg, err := s.repo.GetMessage(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFoundOrForbidden
		}
		return fmt.Errorf("get message: %w", err)
	}
	if msg.UserID != userID {
		return ErrNotFoundOrForbidden
	}
	return nil
}
