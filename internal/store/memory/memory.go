// Package memory provides an in-process store.Store used for tests and for
// running the server without a database file.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/vovakirdan/msgboard/internal/store"
)

// Store implements store.Store on top of slices guarded by a mutex.
type Store struct {
	mu    sync.Mutex
	state *state
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{state: newState()}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// InTx runs fn against a copy of the current state and swaps it in when fn succeeds.
// Concurrent callers are serialized for the duration of fn.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(draft); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateUser(ctx, username, passwordHash)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetUserByID(ctx, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetUserByUsername(ctx, username)
}

func (s *Store) CreateMessage(ctx context.Context, msg *store.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateMessage(ctx, msg)
}

func (s *Store) GetMessage(ctx context.Context, id string, withLikes bool) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetMessage(ctx, id, withLikes)
}

func (s *Store) ListMessages(ctx context.Context, page store.Page, withLikes bool) ([]*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListMessages(ctx, page, withLikes)
}

func (s *Store) UpdateMessages(ctx context.Context, filter store.MessageFilter, patch store.MessagePatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateMessages(ctx, filter, patch)
}

func (s *Store) DeleteMessages(ctx context.Context, filter store.MessageFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteMessages(ctx, filter)
}

func (s *Store) CreateLike(ctx context.Context, like *store.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateLike(ctx, like)
}

func (s *Store) ListLikes(ctx context.Context, filter store.LikeFilter) ([]*store.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListLikes(ctx, filter)
}

func (s *Store) DeleteLikes(ctx context.Context, filter store.LikeFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteLikes(ctx, filter)
}

// state holds rows in insertion order. It is not safe for concurrent use.
type state struct {
	users    []store.User
	messages []store.Message
	likes    []store.Like
	nextUser int64
}

func newState() *state {
	return &state{nextUser: 1}
}

func (st *state) clone() *state {
	return &state{
		users:    append([]store.User(nil), st.users...),
		messages: append([]store.Message(nil), st.messages...),
		likes:    append([]store.Like(nil), st.likes...),
		nextUser: st.nextUser,
	}
}

func (st *state) CreateUser(_ context.Context, username, passwordHash string) (*store.User, error) {
	if _, found := lo.Find(st.users, func(u store.User) bool { return u.Username == username }); found {
		return nil, fmt.Errorf("insert user: %w", store.ErrDuplicate)
	}
	user := store.User{
		ID:           st.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	st.nextUser++
	st.users = append(st.users, user)
	return &user, nil
}

func (st *state) GetUserByID(_ context.Context, id int64) (*store.User, error) {
	user, found := lo.Find(st.users, func(u store.User) bool { return u.ID == id })
	if !found {
		return nil, fmt.Errorf("user: %w", store.ErrNotFound)
	}
	return &user, nil
}

func (st *state) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	user, found := lo.Find(st.users, func(u store.User) bool { return u.Username == username })
	if !found {
		return nil, fmt.Errorf("user: %w", store.ErrNotFound)
	}
	return &user, nil
}

func (st *state) CreateMessage(_ context.Context, msg *store.Message) error {
	if lo.ContainsBy(st.messages, func(m store.Message) bool { return m.ID == msg.ID }) {
		return fmt.Errorf("insert message: %w", store.ErrDuplicate)
	}
	if msg.UpdatedAt.IsZero() {
		msg.UpdatedAt = msg.CreatedAt
	}
	row := *msg
	row.Likes = nil
	st.messages = append(st.messages, row)
	return nil
}

func (st *state) GetMessage(_ context.Context, id string, withLikes bool) (*store.Message, error) {
	row, found := lo.Find(st.messages, func(m store.Message) bool { return m.ID == id })
	if !found {
		return nil, fmt.Errorf("message %s: %w", id, store.ErrNotFound)
	}
	if withLikes {
		row.Likes = st.likesOf(row.ID)
	}
	return &row, nil
}

func (st *state) ListMessages(_ context.Context, page store.Page, withLikes bool) ([]*store.Message, error) {
	if page.Limit <= 0 || page.Offset < 0 || page.Offset >= len(st.messages) {
		return []*store.Message{}, nil
	}
	window := lo.Subset(st.messages, page.Offset, uint(page.Limit))
	return lo.Map(window, func(m store.Message, _ int) *store.Message {
		if withLikes {
			m.Likes = st.likesOf(m.ID)
		}
		return &m
	}), nil
}

func (st *state) UpdateMessages(_ context.Context, filter store.MessageFilter, patch store.MessagePatch) (int64, error) {
	if patch.Empty() {
		return 0, nil
	}
	if filter == (store.MessageFilter{}) {
		return 0, fmt.Errorf("update messages: empty filter")
	}
	var n int64
	for i := range st.messages {
		if !matchMessage(st.messages[i], filter) {
			continue
		}
		st.messages[i].Text = *patch.Text
		st.messages[i].UpdatedAt = time.Now().UTC()
		n++
	}
	return n, nil
}

func (st *state) DeleteMessages(_ context.Context, filter store.MessageFilter) (int64, error) {
	if filter == (store.MessageFilter{}) {
		return 0, fmt.Errorf("delete messages: empty filter")
	}
	before := len(st.messages)
	st.messages = lo.Reject(st.messages, func(m store.Message, _ int) bool { return matchMessage(m, filter) })
	return int64(before - len(st.messages)), nil
}

func (st *state) CreateLike(_ context.Context, like *store.Like) error {
	dup := lo.ContainsBy(st.likes, func(l store.Like) bool {
		return l.ID == like.ID || (l.MessageID == like.MessageID && l.UserID == like.UserID)
	})
	if dup {
		return fmt.Errorf("insert like: %w", store.ErrDuplicate)
	}
	st.likes = append(st.likes, *like)
	return nil
}

func (st *state) ListLikes(_ context.Context, filter store.LikeFilter) ([]*store.Like, error) {
	matched := lo.Filter(st.likes, func(l store.Like, _ int) bool { return matchLike(l, filter) })
	return lo.Map(matched, func(l store.Like, _ int) *store.Like { return &l }), nil
}

func (st *state) DeleteLikes(_ context.Context, filter store.LikeFilter) (int64, error) {
	if filter == (store.LikeFilter{}) {
		return 0, fmt.Errorf("delete likes: empty filter")
	}
	before := len(st.likes)
	st.likes = lo.Reject(st.likes, func(l store.Like, _ int) bool { return matchLike(l, filter) })
	return int64(before - len(st.likes)), nil
}

func (st *state) likesOf(messageID string) []*store.Like {
	likes, _ := st.ListLikes(context.Background(), store.LikeFilter{MessageID: messageID})
	if likes == nil {
		likes = []*store.Like{}
	}
	return likes
}

func matchMessage(m store.Message, filter store.MessageFilter) bool {
	if filter.ID != "" && m.ID != filter.ID {
		return false
	}
	if filter.UserID != 0 && m.UserID != filter.UserID {
		return false
	}
	return true
}

func matchLike(l store.Like, filter store.LikeFilter) bool {
	if filter.MessageID != "" && l.MessageID != filter.MessageID {
		return false
	}
	if filter.UserID != 0 && l.UserID != filter.UserID {
		return false
	}
	return true
}
