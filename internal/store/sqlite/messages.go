package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vovakirdan/msgboard/internal/store"
)

var errEmptyFilter = errors.New("empty filter")

// CreateMessage persists a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *store.Message) error {
	if msg.UpdatedAt.IsZero() {
		msg.UpdatedAt = msg.CreatedAt
	}
	query := `
		INSERT INTO messages (id, user_id, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.q.ExecContext(ctx, query, msg.ID, msg.UserID, msg.Text, msg.CreatedAt.UTC(), msg.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert message: %w", store.ErrDuplicate)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by ID.
func (s *SQLiteStore) GetMessage(ctx context.Context, id string, withLikes bool) (*store.Message, error) {
	query := `
		SELECT id, user_id, text, created_at, updated_at
		FROM messages
		WHERE id = ?
	`
	var msg store.Message
	err := s.q.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Text,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	if withLikes {
		if err := s.attachLikes(ctx, []*store.Message{&msg}); err != nil {
			return nil, err
		}
	}
	return &msg, nil
}

// ListMessages returns a page of messages in insertion order.
func (s *SQLiteStore) ListMessages(ctx context.Context, page store.Page, withLikes bool) ([]*store.Message, error) {
	// SQLite reads a negative LIMIT as unbounded.
	if page.Limit <= 0 || page.Offset < 0 {
		return []*store.Message{}, nil
	}

	query := `
		SELECT id, user_id, text, created_at, updated_at
		FROM messages
		ORDER BY seq ASC
		LIMIT ? OFFSET ?
	`
	rows, err := s.q.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0, min(page.Limit, 64))
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	if withLikes {
		if err := s.attachLikes(ctx, messages); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// UpdateMessages applies patch to every message matching filter.
func (s *SQLiteStore) UpdateMessages(ctx context.Context, filter store.MessageFilter, patch store.MessagePatch) (int64, error) {
	if patch.Empty() {
		return 0, nil
	}
	where, args, err := messageWhere(filter)
	if err != nil {
		return 0, fmt.Errorf("update messages: %w", err)
	}

	query := `UPDATE messages SET text = ?, updated_at = ? WHERE ` + where
	args = append([]any{*patch.Text, time.Now().UTC()}, args...)

	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update messages: %w", err)
	}
	return result.RowsAffected()
}

// DeleteMessages removes every message matching filter.
func (s *SQLiteStore) DeleteMessages(ctx context.Context, filter store.MessageFilter) (int64, error) {
	where, args, err := messageWhere(filter)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM messages WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return result.RowsAffected()
}

// attachLikes loads likes for all messages with a single query.
func (s *SQLiteStore) attachLikes(ctx context.Context, messages []*store.Message) error {
	if len(messages) == 0 {
		return nil
	}

	ids := lo.Map(messages, func(m *store.Message, _ int) any { return m.ID })
	query := `
		SELECT id, message_id, user_id, created_at
		FROM likes
		WHERE message_id IN (` + placeholders(len(ids)) + `)
		ORDER BY seq ASC
	`
	likes, err := s.queryLikes(ctx, query, ids...)
	if err != nil {
		return err
	}

	byMessage := lo.GroupBy(likes, func(l *store.Like) string { return l.MessageID })
	for _, m := range messages {
		m.Likes = byMessage[m.ID]
		if m.Likes == nil {
			m.Likes = []*store.Like{}
		}
	}
	return nil
}

func messageWhere(filter store.MessageFilter) (string, []any, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.ID != "" {
		clauses = append(clauses, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.UserID != 0 {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if len(clauses) == 0 {
		return "", nil, errEmptyFilter
	}
	return strings.Join(clauses, " AND "), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
