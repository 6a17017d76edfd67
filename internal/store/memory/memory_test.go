package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/msgboard/internal/store"
)

func TestListMessages_Window(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.CreateMessage(ctx, &store.Message{ID: fmt.Sprintf("m%d", i), UserID: 1, Text: "hi", CreatedAt: time.Now()}))
	}
	require.NoError(t, s.CreateLike(ctx, &store.Like{ID: "l1", MessageID: "m2", UserID: 2}))

	page, err := s.ListMessages(ctx, store.Page{Limit: 2, Offset: 1}, true)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "m2", page[0].ID)
	require.Len(t, page[0].Likes, 1)
	require.Empty(t, page[1].Likes)

	page, err = s.ListMessages(ctx, store.Page{Limit: 2, Offset: 10}, true)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestInTx_DiscardsDraftOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateMessage(ctx, &store.Message{ID: "m1", UserID: 1, Text: "hi"}))
	require.NoError(t, s.CreateLike(ctx, &store.Like{ID: "l1", MessageID: "m1", UserID: 2}))

	errAbort := errors.New("abort")
	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.DeleteLikes(ctx, store.LikeFilter{MessageID: "m1"}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	likes, err := s.ListLikes(ctx, store.LikeFilter{MessageID: "m1"})
	require.NoError(t, err)
	require.Len(t, likes, 1)

	err = s.InTx(ctx, func(tx store.Tx) error {
		_, err := tx.DeleteMessages(ctx, store.MessageFilter{ID: "m1"})
		return err
	})
	require.NoError(t, err)

	_, err = s.GetMessage(ctx, "m1", false)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateLike_RejectsSecondLikeBySameUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateLike(ctx, &store.Like{ID: "l1", MessageID: "m1", UserID: 2}))
	err := s.CreateLike(ctx, &store.Like{ID: "l2", MessageID: "m1", UserID: 2})
	require.ErrorIs(t, err, store.ErrDuplicate)
}
