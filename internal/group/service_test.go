package group_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porpartes/porpartes/internal/expense"
	"github.com/porpartes/porpartes/internal/group"
	"github.com/porpartes/porpartes/internal/testutil"
	"github.com/porpartes/porpartes/internal/user"
)

type recordingSender struct {
	invites [][3]int64
}

func (s *recordingSender) Invite(_ context.Context, inviterID, inviteeID, groupID int64) error {
	s.invites = append(s.invites, [3]int64{inviterID, inviteeID, groupID})
	return nil
}

type groupFixture struct {
	svc     *group.Service
	repo    *group.Repository
	users   *user.Repository
	exp     *expense.Repository
	sender  *recordingSender
	userIDs []int64
}

func setupGroupService(t *testing.T) *groupFixture {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userRepo := user.NewRepository(db)
	groupRepo := group.NewRepository(db)
	expenseRepo := expense.NewRepository(db)
	sender := &recordingSender{}
	svc := group.NewService(groupRepo, expenseRepo, sender, userRepo)

	var userIDs []int64
	for i, name := range []string{"Ana", "Bruno", "Carla"} {
		u, err := userRepo.Create(ctx, &user.CreateUserRequest{
			Name:  name,
			Email: fmt.Sprintf("%s%d@example.com", name, i),
		}, "hash")
		require.NoError(t, err)
		userIDs = append(userIDs, u.ID)
	}

	return &groupFixture{
		svc:     svc,
		repo:    groupRepo,
		users:   userRepo,
		exp:     expenseRepo,
		sender:  sender,
		userIDs: userIDs,
	}
}

func TestCreateGroupEnrollsCreator(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{
		Name:      "Trip",
		CreatorID: f.userIDs[0],
	})
	require.NoError(t, err)

	assert.Equal(t, "Trip", g.Name)
	assert.Equal(t, "EUR", g.Currency)
	require.Len(t, g.Members, 1)
	assert.Equal(t, f.userIDs[0], g.Members[0].UserID)
}

func TestCreateGroupFansOutInvitations(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{
		Name:      "Trip",
		CreatorID: f.userIDs[0],
		Currency:  "usd",
		// The creator in the invite list is skipped, not invited.
		InviteUserIDs: []int64{f.userIDs[0], f.userIDs[1], f.userIDs[2]},
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", g.Currency)
	require.Len(t, f.sender.invites, 2)
	assert.Equal(t, [3]int64{f.userIDs[0], f.userIDs[1], g.ID}, f.sender.invites[0])
	assert.Equal(t, [3]int64{f.userIDs[0], f.userIDs[2], g.ID}, f.sender.invites[1])
}

func TestCreateGroupValidation(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &group.CreateGroupRequest{Name: "  ", CreatorID: f.userIDs[0]})
	assert.ErrorIs(t, err, group.ErrNameRequired)

	_, err = f.svc.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: 9999})
	assert.ErrorIs(t, err, group.ErrCreatorNotFound)
}

func TestDeleteGroupRefusedWhileExpensesExist(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: f.userIDs[0]})
	require.NoError(t, err)

	expenseSvc := expense.NewService(f.exp, f.repo, f.users)
	created, err := expenseSvc.Create(ctx, &expense.CreateExpenseRequest{
		GroupID:   g.ID,
		Name:      "Dinner",
		Total:     30,
		PayerID:   f.userIDs[0],
		SplitType: "EQUAL",
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, g.ID, f.userIDs[0])
	assert.ErrorIs(t, err, group.ErrHasExpenses)

	require.NoError(t, expenseSvc.Delete(ctx, created.ID, f.userIDs[0]))
	require.NoError(t, f.svc.Delete(ctx, g.ID, f.userIDs[0]))

	_, err = f.svc.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestDeleteGroupCreatorOnly(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: f.userIDs[0]})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, g.ID, f.userIDs[1])
	assert.ErrorIs(t, err, group.ErrNotCreator)
}

func TestRemoveMemberRules(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()
	creator, other := f.userIDs[0], f.userIDs[1]

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: creator})
	require.NoError(t, err)
	require.NoError(t, f.repo.AddMember(ctx, g.ID, other))

	_, err = f.svc.RemoveMember(ctx, g.ID, other, other)
	assert.ErrorIs(t, err, group.ErrCannotRemoveSelf)

	_, err = f.svc.RemoveMember(ctx, g.ID, creator, other)
	assert.ErrorIs(t, err, group.ErrNotCreator)

	_, err = f.svc.RemoveMember(ctx, g.ID, f.userIDs[2], creator)
	assert.ErrorIs(t, err, group.ErrMemberNotFound)

	updated, err := f.svc.RemoveMember(ctx, g.ID, other, creator)
	require.NoError(t, err)
	assert.Len(t, updated.Members, 1)
}

func TestUpdateGroup(t *testing.T) {
	f := setupGroupService(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: f.userIDs[0]})
	require.NoError(t, err)

	name := "Summer trip"
	_, err = f.svc.Update(ctx, g.ID, f.userIDs[1], &group.UpdateGroupRequest{Name: &name})
	assert.ErrorIs(t, err, group.ErrNotCreator)

	updated, err := f.svc.Update(ctx, g.ID, f.userIDs[0], &group.UpdateGroupRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Summer trip", updated.Name)
	assert.Equal(t, "EUR", updated.Currency)
}
