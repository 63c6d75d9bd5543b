package friendship_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porpartes/porpartes/internal/friendship"
	"github.com/porpartes/porpartes/internal/testutil"
	"github.com/porpartes/porpartes/internal/user"
)

type friendshipFixture struct {
	svc   *friendship.Service
	ana   int64
	bruno int64
	carla int64
}

func setupFriendshipService(t *testing.T) *friendshipFixture {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userRepo := user.NewRepository(db)
	svc := friendship.NewService(friendship.NewRepository(db), userRepo)

	ids := make([]int64, 3)
	for i, name := range []string{"Ana", "Bruno", "Carla"} {
		u, err := userRepo.Create(ctx, &user.CreateUserRequest{
			Name:  name,
			Email: fmt.Sprintf("%s%d@example.com", name, i),
		}, "hash")
		require.NoError(t, err)
		ids[i] = u.ID
	}

	return &friendshipFixture{svc: svc, ana: ids[0], bruno: ids[1], carla: ids[2]}
}

func TestSendFriendRequest(t *testing.T) {
	f := setupFriendshipService(t)
	ctx := context.Background()

	fr, err := f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusPending, fr.Status)
	assert.Equal(t, "Ana", fr.RequesterName)
	assert.Equal(t, "Bruno", fr.RecipientName)

	// Duplicates are refused in both directions while one is pending.
	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	assert.ErrorIs(t, err, friendship.ErrAlreadyPending)
	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.bruno, RecipientID: f.ana})
	assert.ErrorIs(t, err, friendship.ErrAlreadyPending)

	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.ana})
	assert.ErrorIs(t, err, friendship.ErrSelfRequest)

	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: 9999})
	assert.ErrorIs(t, err, friendship.ErrUserNotFound)
}

func TestAcceptFriendRequest(t *testing.T) {
	f := setupFriendshipService(t)
	ctx := context.Background()

	fr, err := f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	require.NoError(t, err)

	// Only the recipient may respond.
	_, err = f.svc.Respond(ctx, fr.ID, f.ana, "accept")
	assert.ErrorIs(t, err, friendship.ErrNotRecipient)

	accepted, err := f.svc.Respond(ctx, fr.ID, f.bruno, "accept")
	require.NoError(t, err)
	assert.Equal(t, friendship.StatusAccepted, accepted.Status)

	// An accepted request cannot be answered again.
	_, err = f.svc.Respond(ctx, fr.ID, f.bruno, "accept")
	assert.ErrorIs(t, err, friendship.ErrNotPending)

	// Both sides now see each other as friends.
	friends, err := f.svc.ListFriends(ctx, f.ana)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, f.bruno, friends[0].UserID)

	friends, err = f.svc.ListFriends(ctx, f.bruno)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, f.ana, friends[0].UserID)

	// And a fresh request between friends is refused.
	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.bruno, RecipientID: f.ana})
	assert.ErrorIs(t, err, friendship.ErrAlreadyFriends)
}

func TestRejectFriendRequestRemovesIt(t *testing.T) {
	f := setupFriendshipService(t)
	ctx := context.Background()

	fr, err := f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	require.NoError(t, err)

	rejected, err := f.svc.Respond(ctx, fr.ID, f.bruno, "reject")
	require.NoError(t, err)
	assert.Nil(t, rejected)

	// The slate is clean: the same request can be sent again.
	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	require.NoError(t, err)
}

func TestCancelFriendRequest(t *testing.T) {
	f := setupFriendshipService(t)
	ctx := context.Background()

	fr, err := f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.bruno})
	require.NoError(t, err)

	err = f.svc.Cancel(ctx, fr.ID, f.bruno)
	assert.ErrorIs(t, err, friendship.ErrNotRequester)

	require.NoError(t, f.svc.Cancel(ctx, fr.ID, f.ana))

	err = f.svc.Cancel(ctx, fr.ID, f.ana)
	assert.ErrorIs(t, err, friendship.ErrRequestNotFound)
}

func TestListPendingRequests(t *testing.T) {
	f := setupFriendshipService(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.ana, RecipientID: f.carla})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, &friendship.SendRequest{RequesterID: f.bruno, RecipientID: f.carla})
	require.NoError(t, err)

	received, err := f.svc.ListReceived(ctx, f.carla)
	require.NoError(t, err)
	assert.Len(t, received, 2)

	sent, err := f.svc.ListSent(ctx, f.ana)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, f.carla, sent[0].RecipientID)
}
