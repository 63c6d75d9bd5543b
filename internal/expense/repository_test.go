package expense_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porpartes/porpartes/internal/expense"
	"github.com/porpartes/porpartes/internal/expense/split"
	"github.com/porpartes/porpartes/internal/group"
	"github.com/porpartes/porpartes/internal/testutil"
	"github.com/porpartes/porpartes/internal/user"
)

type repoFixture struct {
	repo    *expense.Repository
	groupID int64
	ana     int64
	bruno   int64
}

func setupExpenseRepo(t *testing.T) *repoFixture {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userRepo := user.NewRepository(db)
	groupRepo := group.NewRepository(db)

	ids := make([]int64, 2)
	for i, name := range []string{"Ana", "Bruno"} {
		u, err := userRepo.Create(ctx, &user.CreateUserRequest{
			Name:  name,
			Email: fmt.Sprintf("%s%d@example.com", name, i),
		}, "hash")
		require.NoError(t, err)
		ids[i] = u.ID
	}

	g, err := groupRepo.Create(ctx, &group.CreateGroupRequest{Name: "Trip", CreatorID: ids[0]})
	require.NoError(t, err)
	require.NoError(t, groupRepo.AddMember(ctx, g.ID, ids[1]))

	return &repoFixture{
		repo:    expense.NewRepository(db),
		groupID: g.ID,
		ana:     ids[0],
		bruno:   ids[1],
	}
}

func (f *repoFixture) newExpense(name string, total float64, date time.Time) *expense.Expense {
	half := total / 2
	return &expense.Expense{
		GroupID:   f.groupID,
		PayerID:   f.ana,
		Name:      name,
		Total:     total,
		Date:      date,
		SplitType: split.TypeEqual,
		Shares: []expense.ShareDetail{
			{UserID: f.ana, Amount: half},
			{UserID: f.bruno, Amount: half},
		},
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	f := setupExpenseRepo(t)
	ctx := context.Background()

	created, err := f.repo.Create(ctx, f.newExpense("Dinner", 30, time.Now()))
	require.NoError(t, err)

	got, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Dinner", got.Name)
	assert.Equal(t, 30.0, got.Total)
	assert.Equal(t, "Ana", got.PayerName)
	assert.Equal(t, "Trip", got.GroupName)
	assert.Equal(t, "EUR", got.Currency)
	require.Len(t, got.Shares, 2)
	assert.Equal(t, "Ana", got.Shares[0].UserName)

	missing, err := f.repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryUpdateReplacesShares(t *testing.T) {
	f := setupExpenseRepo(t)
	ctx := context.Background()

	created, err := f.repo.Create(ctx, f.newExpense("Dinner", 30, time.Now()))
	require.NoError(t, err)

	created.Name = "Dinner out"
	created.Total = 40
	created.SplitType = split.TypeManual
	created.Shares = []expense.ShareDetail{{UserID: f.bruno, Amount: 40}}

	updated, err := f.repo.Update(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "Dinner out", updated.Name)
	assert.Equal(t, split.TypeManual, updated.SplitType)
	require.Len(t, updated.Shares, 1)
	assert.Equal(t, f.bruno, updated.Shares[0].UserID)
	assert.Equal(t, 40.0, updated.Shares[0].Amount)

	ghost := f.newExpense("Ghost", 10, time.Now())
	ghost.ID = 9999
	_, err = f.repo.Update(ctx, ghost)
	assert.ErrorIs(t, err, expense.ErrExpenseNotFound)
}

func TestRepositoryListOrdering(t *testing.T) {
	f := setupExpenseRepo(t)
	ctx := context.Background()

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()

	_, err := f.repo.Create(ctx, f.newExpense("Older", 10, older))
	require.NoError(t, err)
	_, err = f.repo.Create(ctx, f.newExpense("Newer", 20, newer))
	require.NoError(t, err)

	expenses, err := f.repo.ListByGroup(ctx, f.groupID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Newer", expenses[0].Name)
	assert.Equal(t, "Older", expenses[1].Name)

	byGroups, err := f.repo.ListByGroups(ctx, []int64{f.groupID, 9999})
	require.NoError(t, err)
	assert.Len(t, byGroups, 2)

	all, err := f.repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryDeleteAndCount(t *testing.T) {
	f := setupExpenseRepo(t)
	ctx := context.Background()

	created, err := f.repo.Create(ctx, f.newExpense("Dinner", 30, time.Now()))
	require.NoError(t, err)

	count, err := f.repo.CountByGroup(ctx, f.groupID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, f.repo.Delete(ctx, created.ID))

	count, err = f.repo.CountByGroup(ctx, f.groupID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, f.repo.Delete(ctx, created.ID), expense.ErrExpenseNotFound)
}
