package messages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLikeMessage(t *testing.T) {
	svc, _ := newTestService(t, DefaultOptions())
	ctx := context.Background()

	msg := mustCreate(t, svc, alice, "hello")

	like, err := svc.LikeMessage(ctx, bob, msg.ID)
	require.NoError(t, err)
	require.Equal(t, msg.ID, like.MessageID)
	require.Equal(t, bob, like.UserID)

	_, err = svc.LikeMessage(ctx, bob, msg.ID)
	require.ErrorIs(t, err, ErrAlreadyLiked)

	_, err = svc.LikeMessage(ctx, bob, "does-not-exist")
	require.ErrorIs(t, err, ErrMessageNotFound)

	_, err = svc.LikeMessage(ctx, 0, msg.ID)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestUnlikeMessage(t *testing.T) {
	svc, _ := newTestService(t, DefaultOptions())
	ctx := context.Background()

	msg := mustCreate(t, svc, alice, "hello")
	mustLike(t, svc, bob, msg.ID)
	mustLike(t, svc, carol, msg.ID)

	require.NoError(t, svc.UnlikeMessage(ctx, bob, msg.ID))
	require.ErrorIs(t, svc.UnlikeMessage(ctx, bob, msg.ID), ErrLikeNotFound)

	got, err := svc.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	require.Equal(t, carol, got.Likes[0].UserID)
}
