package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

func TestProjectService_Analytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.project.now = func() time.Time { return now }

	p, err := f.project.Create(ctx, alice.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: "Launch"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	specs := []struct {
		status domain.TaskStatus
		due    *time.Time
	}{
		{domain.TaskTodo, &past},       // overdue
		{domain.TaskInProgress, &past}, // overdue
		{domain.TaskDone, &past},       // done, not overdue
		{domain.TaskDone, &future},
		{domain.TaskDone, nil},
	}
	for i, s := range specs {
		in := ports.CreateTaskInput{Title: fmt.Sprintf("task %d", i), Status: s.status, DueDate: s.due}
		if _, err := f.task.Create(ctx, alice.User.ID, alice.WorkspaceID, p.ID, in); err != nil {
			t.Fatalf("create task %d: %v", i, err)
		}
	}

	got, err := f.project.Analytics(ctx, alice.User.ID, alice.WorkspaceID, p.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	want := domain.TaskAnalytics{TotalTasks: 5, OverdueTasks: 2, CompletedTasks: 3}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestProjectService_DeleteCascadesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")

	p, _ := f.project.Create(ctx, alice.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: "Doomed"})
	keep, _ := f.project.Create(ctx, alice.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: "Kept"})

	var ids []string
	for i := 0; i < 3; i++ {
		task, err := f.task.Create(ctx, alice.User.ID, alice.WorkspaceID, p.ID, ports.CreateTaskInput{Title: "t"})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		ids = append(ids, task.ID)
	}
	if _, err := f.task.Create(ctx, alice.User.ID, alice.WorkspaceID, keep.ID, ports.CreateTaskInput{Title: "survivor"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := f.project.Delete(ctx, alice.User.ID, alice.WorkspaceID, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, id := range ids {
		if _, err := f.task.Get(ctx, alice.User.ID, alice.WorkspaceID, p.ID, id); !errors.Is(err, domain.ErrProjectNotFound) && !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("expected not found for task %s, got %v", id, err)
		}
		if _, err := f.tasks.Find(ctx, alice.WorkspaceID, "", id); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Fatalf("task %s survived the cascade", id)
		}
	}
	if c := f.store.Counts(); c.Tasks != 1 || c.Projects != 1 {
		t.Fatalf("unexpected counts after cascade: %+v", c)
	}
}

func TestProjectService_CrossWorkspaceIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	w1 := alice.WorkspaceID
	w2, err := f.workspace.Create(ctx, alice.User.ID, ports.CreateWorkspaceInput{Name: "W2"})
	if err != nil {
		t.Fatalf("create w2: %v", err)
	}

	p1, _ := f.project.Create(ctx, alice.User.ID, w1, ports.CreateProjectInput{Name: "P1"})

	got, err := f.project.Get(ctx, alice.User.ID, w2.ID, p1.ID)
	if !errors.Is(err, domain.ErrProjectNotFound) || got != nil {
		t.Fatalf("expected ErrProjectNotFound and no data, got %+v %v", got, err)
	}
	if err := f.project.Delete(ctx, alice.User.ID, w2.ID, p1.ID); !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("cross-workspace delete: expected ErrProjectNotFound, got %v", err)
	}
	if _, err := f.project.Get(ctx, alice.User.ID, w1, p1.ID); err != nil {
		t.Fatalf("project must survive: %v", err)
	}
}

func TestProjectService_ListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		f.project.now = func() time.Time { return at }
		if _, err := f.project.Create(ctx, alice.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: fmt.Sprintf("p%d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := f.project.List(ctx, alice.User.ID, alice.WorkspaceID, domain.NewPageRequest(1, 2))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Projects) != 2 || page.Projects[0].Name != "p4" || page.Projects[1].Name != "p3" {
		t.Fatalf("expected newest first, got %d projects", len(page.Projects))
	}
	if page.Pagination.TotalPages != 3 || page.Pagination.TotalCount != 5 {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
	if page.Projects[0].Creator == nil || page.Projects[0].Creator.ID != alice.User.ID {
		t.Fatalf("creator not resolved")
	}

	beyond, err := f.project.List(ctx, alice.User.ID, alice.WorkspaceID, domain.NewPageRequest(9, 2))
	if err != nil {
		t.Fatalf("list beyond: %v", err)
	}
	if len(beyond.Projects) != 0 || beyond.Pagination.TotalPages != 3 {
		t.Fatalf("expected empty page with totalPages=3, got %d / %+v", len(beyond.Projects), beyond.Pagination)
	}

	huge, err := f.project.List(ctx, alice.User.ID, alice.WorkspaceID, domain.NewPageRequest(100000000000000000, domain.MaxPageSize))
	if err != nil {
		t.Fatalf("list huge page: %v", err)
	}
	if len(huge.Projects) != 0 || huge.Pagination.Skip < 0 {
		t.Fatalf("expected empty page with non-negative skip, got %d / %+v", len(huge.Projects), huge.Pagination)
	}
}

func TestProjectService_MemberCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)

	if _, err := f.project.Create(ctx, bob.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: "x"}); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if c := f.store.Counts(); c.Projects != 0 {
		t.Fatalf("denied call must not write")
	}

	p, _ := f.project.Create(ctx, alice.User.ID, alice.WorkspaceID, ports.CreateProjectInput{Name: "x"})
	name := "y"
	if _, err := f.project.Update(ctx, bob.User.ID, alice.WorkspaceID, p.ID, ports.UpdateProjectInput{Name: &name}); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if _, err := f.project.Get(ctx, bob.User.ID, alice.WorkspaceID, p.ID); err != nil {
		t.Fatalf("members can view: %v", err)
	}
	if p.Emoji != domain.DefaultProjectEmoji {
		t.Fatalf("expected default emoji, got %q", p.Emoji)
	}
}
