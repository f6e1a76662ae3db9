package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

const taskCodeAttempts = 3

// TaskService implements task CRUD scoped by project and workspace.
type TaskService struct {
	authz    ports.Authorizer
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	members  ports.MemberRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewTaskService(
	authz ports.Authorizer,
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	members ports.MemberRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		authz:    authz,
		tasks:    tasks,
		projects: projects,
		members:  members,
		users:    users,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) Create(ctx context.Context, userID, workspaceID, projectID string, in ports.CreateTaskInput) (*domain.Task, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermCreateTask); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	status := in.Status
	if status == "" {
		status = domain.TaskTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid task status")
	}
	if !priority.Valid() {
		return nil, domain.NewValidationError("invalid task priority")
	}

	// The project must live in the same workspace.
	if _, err := s.projects.Find(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, workspaceID, in.AssignedTo); err != nil {
		return nil, err
	}

	now := s.now()
	task := &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		ProjectID:   projectID,
		WorkspaceID: workspaceID,
		Status:      status,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   userID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < taskCodeAttempts; attempt++ {
		task.TaskCode = generateTaskCode()
		if err = s.tasks.Create(ctx, task); !errors.Is(err, domain.ErrTaskCodeTaken) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().
		Str("task_id", task.ID).
		Str("task_code", task.TaskCode).
		Str("project_id", projectID).
		Msg("task created")
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, workspaceID, projectID, taskID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermEditTask); err != nil {
		return nil, err
	}
	if _, err := s.projects.Find(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	task, err := s.tasks.Find(ctx, workspaceID, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("title cannot be empty")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.NewValidationError("invalid task status")
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, domain.NewValidationError("invalid task priority")
		}
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		if err := s.checkAssignee(ctx, workspaceID, *in.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = *in.AssignedTo
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// List filters the workspace's tasks and resolves assignees and projects.
func (s *TaskService) List(ctx context.Context, userID string, q ports.ListTasksQuery) (*ports.TaskPage, error) {
	if _, err := s.authz.Authorize(ctx, userID, q.WorkspaceID, domain.PermViewOnly); err != nil {
		return nil, err
	}
	for _, st := range q.Statuses {
		if !st.Valid() {
			return nil, domain.NewValidationError("invalid task status filter")
		}
	}
	for _, p := range q.Priorities {
		if !p.Valid() {
			return nil, domain.NewValidationError("invalid task priority filter")
		}
	}

	page := domain.NewPageRequest(q.Page.Number, q.Page.Size)
	tasks, total, err := s.tasks.List(ctx, ports.TaskFilter{
		WorkspaceID: q.WorkspaceID,
		ProjectID:   q.ProjectID,
		Statuses:    q.Statuses,
		Priorities:  q.Priorities,
		AssignedTo:  q.AssignedTo,
		Keyword:     strings.TrimSpace(q.Keyword),
		DueDate:     q.DueDate,
		Skip:        page.Skip(),
		Limit:       page.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	views, err := s.views(ctx, q.WorkspaceID, tasks)
	if err != nil {
		return nil, err
	}
	return &ports.TaskPage{Tasks: views, Pagination: page.Paginate(total)}, nil
}

func (s *TaskService) Get(ctx context.Context, userID, workspaceID, projectID, taskID string) (*domain.TaskView, error) {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermViewOnly); err != nil {
		return nil, err
	}
	if _, err := s.projects.Find(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}
	task, err := s.tasks.Find(ctx, workspaceID, projectID, taskID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, workspaceID, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *TaskService) Delete(ctx context.Context, userID, workspaceID, taskID string) error {
	if _, err := s.authz.Authorize(ctx, userID, workspaceID, domain.PermDeleteTask); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, workspaceID, taskID); err != nil {
		return err
	}
	s.log.Info().Str("task_id", taskID).Str("workspace_id", workspaceID).Msg("task deleted")
	return nil
}

// checkAssignee requires a non-empty assignee to be a workspace member.
func (s *TaskService) checkAssignee(ctx context.Context, workspaceID, assignee string) error {
	if assignee == "" {
		return nil
	}
	if _, err := s.members.Find(ctx, assignee, workspaceID); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return domain.NewValidationError("assigned user is not a member of this workspace")
		}
		return fmt.Errorf("check assignee: %w", err)
	}
	return nil
}

func (s *TaskService) views(ctx context.Context, workspaceID string, tasks []*domain.Task) ([]*domain.TaskView, error) {
	assigneeIDs := make([]string, 0, len(tasks))
	projectIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		assigneeIDs = append(assigneeIDs, t.AssignedTo)
		projectIDs = append(projectIDs, t.ProjectID)
	}

	assignees, err := summariesByID(ctx, s.users, assigneeIDs)
	if err != nil {
		return nil, err
	}

	projects := make(map[string]*domain.ProjectSummary)
	if ids := dedupe(projectIDs); len(ids) > 0 {
		found, err := s.projects.FindByIDs(ctx, workspaceID, ids)
		if err != nil {
			return nil, fmt.Errorf("load projects: %w", err)
		}
		for _, p := range found {
			projects[p.ID] = &domain.ProjectSummary{ID: p.ID, Name: p.Name, Emoji: p.Emoji}
		}
	}

	out := make([]*domain.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, &domain.TaskView{Task: t, Assignee: assignees[t.AssignedTo], Project: projects[t.ProjectID]})
	}
	return out, nil
}
