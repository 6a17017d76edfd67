package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a lookup by identity matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
)

// User represents an account that can own messages and likes.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted user-authored message.
type Message struct {
	ID        string
	UserID    int64
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Likes is populated only when associations are requested.
	Likes []*Like
}

// Like represents a user's like on a message.
type Like struct {
	ID        string
	MessageID string
	UserID    int64
	CreatedAt time.Time
}

// MessageFilter narrows update and delete statements. Zero fields are ignored.
type MessageFilter struct {
	ID     string
	UserID int64
}

// MessagePatch holds the fields to change on a message. Nil fields are left untouched.
type MessagePatch struct {
	Text *string
}

// Empty reports whether the patch changes nothing.
func (p MessagePatch) Empty() bool {
	return p.Text == nil
}

// LikeFilter narrows like queries. Zero fields are ignored.
type LikeFilter struct {
	MessageID string
	UserID    int64
}

// Page selects a window of rows in store-default (insertion) order.
type Page struct {
	Limit  int
	Offset int
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// CreateMessage persists a new message. ID and CreatedAt must be set by the caller.
	CreateMessage(ctx context.Context, msg *Message) error

	// GetMessage retrieves a message by ID, with its likes when withLikes is set.
	// Returns ErrNotFound when no row matches.
	GetMessage(ctx context.Context, id string, withLikes bool) (*Message, error)

	// ListMessages returns a page of messages in insertion order.
	ListMessages(ctx context.Context, page Page, withLikes bool) ([]*Message, error)

	// UpdateMessages applies patch to every message matching filter and returns the affected count.
	UpdateMessages(ctx context.Context, filter MessageFilter, patch MessagePatch) (int64, error)

	// DeleteMessages removes every message matching filter and returns the affected count.
	DeleteMessages(ctx context.Context, filter MessageFilter) (int64, error)
}

// LikeStore handles like persistence.
type LikeStore interface {
	// CreateLike persists a like. Returns ErrDuplicate if the user already liked the message.
	CreateLike(ctx context.Context, like *Like) error

	// ListLikes returns likes matching filter in insertion order.
	ListLikes(ctx context.Context, filter LikeFilter) ([]*Like, error)

	// DeleteLikes removes likes matching filter and returns the affected count.
	DeleteLikes(ctx context.Context, filter LikeFilter) (int64, error)
}

// Tx is the set of stores usable inside a transaction.
type Tx interface {
	MessageStore
	LikeStore
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore
	LikeStore

	// InTx runs fn inside a single transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close closes the underlying database connection.
	Close() error
}
