package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

type TaskRepository struct{ s *Store }

func NewTaskRepository(s *Store) *TaskRepository { return &TaskRepository{s: s} }

func (r *TaskRepository) Create(_ context.Context, t *domain.Task) error {
	return r.s.write(func(d *dataset) error {
		for _, existing := range d.tasks {
			if existing.TaskCode == t.TaskCode {
				return domain.ErrTaskCodeTaken
			}
		}
		t.ID = newID()
		d.tasks[t.ID] = *t
		return nil
	})
}

func (r *TaskRepository) Find(_ context.Context, workspaceID, projectID, id string) (*domain.Task, error) {
	var out *domain.Task
	err := r.s.read(func(d *dataset) error {
		t, ok := d.tasks[id]
		if !ok || t.WorkspaceID != workspaceID || (projectID != "" && t.ProjectID != projectID) {
			return domain.ErrTaskNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

// matches applies the same filter the Mongo query builds.
func matches(t domain.Task, f ports.TaskFilter) bool {
	if t.WorkspaceID != f.WorkspaceID {
		return false
	}
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, t.Priority) {
		return false
	}
	if len(f.AssignedTo) > 0 && !slices.Contains(f.AssignedTo, t.AssignedTo) {
		return false
	}
	if f.Keyword != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.DueDate != nil {
		if t.DueDate == nil {
			return false
		}
		start := dayStart(*f.DueDate)
		if t.DueDate.Before(start) || !t.DueDate.Before(start.Add(24*time.Hour)) {
			return false
		}
	}
	return true
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *TaskRepository) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	var matched []*domain.Task
	err := r.s.read(func(d *dataset) error {
		for _, t := range d.tasks {
			if matches(t, f) {
				matched = append(matched, &t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pageOf(matched, f.Skip, f.Limit), int64(len(matched)), nil
}

func (r *TaskRepository) Update(_ context.Context, t *domain.Task) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.tasks[t.ID]
		if !ok || existing.WorkspaceID != t.WorkspaceID {
			return domain.ErrTaskNotFound
		}
		d.tasks[t.ID] = *t
		return nil
	})
}

func (r *TaskRepository) Delete(_ context.Context, workspaceID, id string) error {
	return r.s.write(func(d *dataset) error {
		t, ok := d.tasks[id]
		if !ok || t.WorkspaceID != workspaceID {
			return domain.ErrTaskNotFound
		}
		delete(d.tasks, id)
		return nil
	})
}

func (r *TaskRepository) deleteWhere(match func(domain.Task) bool) (int64, error) {
	var n int64
	err := r.s.write(func(d *dataset) error {
		for id, t := range d.tasks {
			if match(t) {
				delete(d.tasks, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *TaskRepository) DeleteByProject(_ context.Context, workspaceID, projectID string) (int64, error) {
	return r.deleteWhere(func(t domain.Task) bool {
		return t.WorkspaceID == workspaceID && t.ProjectID == projectID
	})
}

func (r *TaskRepository) DeleteByWorkspace(_ context.Context, workspaceID string) (int64, error) {
	return r.deleteWhere(func(t domain.Task) bool { return t.WorkspaceID == workspaceID })
}

func (r *TaskRepository) Analytics(_ context.Context, scope ports.TaskScope, now time.Time) (domain.TaskAnalytics, error) {
	var out domain.TaskAnalytics
	err := r.s.read(func(d *dataset) error {
		for _, t := range d.tasks {
			if t.WorkspaceID != scope.WorkspaceID || (scope.ProjectID != "" && t.ProjectID != scope.ProjectID) {
				continue
			}
			out.TotalTasks++
			if t.IsOverdue(now) {
				out.OverdueTasks++
			}
			if t.Status == domain.TaskDone {
				out.CompletedTasks++
			}
		}
		return nil
	})
	return out, err
}
