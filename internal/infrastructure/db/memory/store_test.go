package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)

	require.NoError(t, users.Create(ctx, &domain.User{Email: "kept@x.com"}))

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, users.Create(ctx, &domain.User{Email: "gone@x.com"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, store.Counts().Users)
	_, err = users.FindByEmail(ctx, "gone@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestWithinTransaction_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)

	assert.Panics(t, func() {
		_ = store.WithinTransaction(ctx, func(ctx context.Context) error {
			_ = users.Create(ctx, &domain.User{Email: "gone@x.com"})
			panic("boom")
		})
	})
	assert.Equal(t, 0, store.Counts().Users)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.WithinTransaction(ctx, func(ctx context.Context) error {
			return users.Create(ctx, &domain.User{Email: "inner@x.com"})
		}))
		return errors.New("outer fails")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, store.Counts().Users)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	users := NewUserRepository(store)
	require.NoError(t, users.Create(ctx, &domain.User{Email: "a@x.com"}))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Email: "a@x.com"}), domain.ErrEmailTaken)

	accounts := NewAccountRepository(store)
	require.NoError(t, accounts.Create(ctx, &domain.Account{Provider: domain.ProviderEmail, ProviderID: "a@x.com"}))
	assert.ErrorIs(t, accounts.Create(ctx, &domain.Account{Provider: domain.ProviderEmail, ProviderID: "a@x.com"}), domain.ErrAccountExists)
	// Same identity string under another provider is a different credential.
	assert.NoError(t, accounts.Create(ctx, &domain.Account{Provider: domain.ProviderGoogle, ProviderID: "a@x.com"}))

	members := NewMemberRepository(store)
	require.NoError(t, members.Create(ctx, &domain.Member{UserID: "u1", WorkspaceID: "w1"}))
	assert.ErrorIs(t, members.Create(ctx, &domain.Member{UserID: "u1", WorkspaceID: "w1"}), domain.ErrAlreadyMember)

	workspaces := NewWorkspaceRepository(store)
	require.NoError(t, workspaces.Create(ctx, &domain.Workspace{InviteCode: "abc"}))
	assert.ErrorIs(t, workspaces.Create(ctx, &domain.Workspace{InviteCode: "abc"}), domain.ErrInviteCodeTaken)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tasks := NewTaskRepository(store)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := base.Add(5 * time.Hour)
	seed := []*domain.Task{
		{TaskCode: "t1", Title: "Write docs", WorkspaceID: "w1", ProjectID: "p1", Status: domain.TaskTodo, Priority: domain.PriorityLow, AssignedTo: "u1", CreatedAt: base},
		{TaskCode: "t2", Title: "Fix login bug", WorkspaceID: "w1", ProjectID: "p1", Status: domain.TaskDone, Priority: domain.PriorityHigh, CreatedAt: base.Add(time.Minute), DueDate: &due},
		{TaskCode: "t3", Title: "Deploy", WorkspaceID: "w1", ProjectID: "p2", Status: domain.TaskInProgress, Priority: domain.PriorityHigh, AssignedTo: "u2", CreatedAt: base.Add(2 * time.Minute)},
		{TaskCode: "t4", Title: "Other tenant", WorkspaceID: "w2", ProjectID: "p9", Status: domain.TaskTodo, Priority: domain.PriorityLow, CreatedAt: base},
	}
	for _, task := range seed {
		require.NoError(t, tasks.Create(ctx, task))
	}

	list := func(f ports.TaskFilter) []string {
		f.WorkspaceID = "w1"
		got, _, err := tasks.List(ctx, f)
		require.NoError(t, err)
		codes := make([]string, 0, len(got))
		for _, task := range got {
			codes = append(codes, task.TaskCode)
		}
		return codes
	}

	assert.Equal(t, []string{"t3", "t2", "t1"}, list(ports.TaskFilter{}))
	assert.Equal(t, []string{"t2", "t1"}, list(ports.TaskFilter{ProjectID: "p1"}))
	assert.Equal(t, []string{"t3", "t2"}, list(ports.TaskFilter{Priorities: []domain.TaskPriority{domain.PriorityHigh}}))
	assert.Equal(t, []string{"t1"}, list(ports.TaskFilter{Statuses: []domain.TaskStatus{domain.TaskTodo}}))
	assert.Equal(t, []string{"t3", "t1"}, list(ports.TaskFilter{AssignedTo: []string{"u1", "u2"}}))
	assert.Equal(t, []string{"t2"}, list(ports.TaskFilter{Keyword: "LOGIN"}))
	assert.Equal(t, []string{"t2"}, list(ports.TaskFilter{DueDate: &base}))
	assert.Equal(t, []string{"t2"}, list(ports.TaskFilter{Skip: 1, Limit: 1}))
	assert.Empty(t, list(ports.TaskFilter{Skip: 10, Limit: 5}))
}
