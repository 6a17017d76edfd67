package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vovakirdan/msgboard/internal/store"
)

// CreateLike persists a like.
func (s *SQLiteStore) CreateLike(ctx context.Context, like *store.Like) error {
	query := `
		INSERT INTO likes (id, message_id, user_id, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.q.ExecContext(ctx, query, like.ID, like.MessageID, like.UserID, like.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert like: %w", store.ErrDuplicate)
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// ListLikes returns likes matching filter in insertion order.
func (s *SQLiteStore) ListLikes(ctx context.Context, filter store.LikeFilter) ([]*store.Like, error) {
	query := `SELECT id, message_id, user_id, created_at FROM likes`
	where, args := likeWhere(filter)
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY seq ASC`
	return s.queryLikes(ctx, query, args...)
}

// DeleteLikes removes likes matching filter.
func (s *SQLiteStore) DeleteLikes(ctx context.Context, filter store.LikeFilter) (int64, error) {
	where, args := likeWhere(filter)
	if where == "" {
		return 0, fmt.Errorf("delete likes: %w", errEmptyFilter)
	}

	result, err := s.q.ExecContext(ctx, `DELETE FROM likes WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete likes: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) queryLikes(ctx context.Context, query string, args ...any) ([]*store.Like, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query likes: %w", err)
	}
	defer rows.Close()

	var likes []*store.Like
	for rows.Next() {
		var like store.Like
		if err := rows.Scan(&like.ID, &like.MessageID, &like.UserID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, &like)
	}

	return likes, rows.Err()
}

func likeWhere(filter store.LikeFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.MessageID != "" {
		clauses = append(clauses, "message_id = ?")
		args = append(args, filter.MessageID)
	}
	if filter.UserID != 0 {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	return strings.Join(clauses, " AND "), args
}
