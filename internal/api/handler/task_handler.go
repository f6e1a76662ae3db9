package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

type TaskHandler struct {
	tasks ports.TaskService
}

func NewTaskHandler(tasks ports.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create adds a task to a project of the workspace.
//
// @Summary      Create task
// @Tags         task
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId    path      string             true  "Project ID"
// @Param        workspaceId  path      string             true  "Workspace ID"
// @Param        body         body      createTaskRequest  true  "Task"
// @Success      201          {object}  taskResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /task/project/{projectId}/workspace/{workspaceId}/create [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	t, err := h.tasks.Create(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("projectId"), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, taskResponse{Message: "Task created successfully", Task: t})
}

// Update edits a task. An empty assigned_to unassigns it.
//
// @Summary      Update task
// @Tags         task
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string             true  "Task ID"
// @Param        projectId    path      string             true  "Project ID"
// @Param        workspaceId  path      string             true  "Workspace ID"
// @Param        body         body      updateTaskRequest  true  "Fields to change"
// @Success      200          {object}  taskResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /task/{id}/project/{projectId}/workspace/{workspaceId}/update [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	in := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		st := domain.TaskStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		pr := domain.TaskPriority(*req.Priority)
		in.Priority = &pr
	}
	t, err := h.tasks.Update(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("projectId"), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskResponse{Message: "Task updated successfully", Task: t})
}

// List filters the workspace's tasks. status, priority and assignedTo take
// comma-separated values.
//
// @Summary      List tasks
// @Tags         task
// @Produce      json
// @Security     BearerAuth
// @Param        workspaceId  path      string  true   "Workspace ID"
// @Param        projectId    query     string  false  "Project ID"
// @Param        status       query     string  false  "Statuses, comma-separated"
// @Param        priority     query     string  false  "Priorities, comma-separated"
// @Param        assignedTo   query     string  false  "Assignee user IDs, comma-separated"
// @Param        keyword      query     string  false  "Case-insensitive title match"
// @Param        dueDate      query     string  false  "Due day, YYYY-MM-DD"
// @Param        pageSize     query     int     false  "Page size (default 10)"
// @Param        pageNumber   query     int     false  "Page number (default 1)"
// @Success      200          {object}  taskListResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /task/workspace/{workspaceId}/all [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	q, err := taskQuery(c)
	if err != nil {
		return err
	}
	res, err := h.tasks.List(c.Request().Context(), userID, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskListResponse{
		Message:    "All tasks fetched successfully",
		Tasks:      res.Tasks,
		Pagination: res.Pagination,
	})
}

// Get returns one task with its assignee and project.
//
// @Summary      Get task
// @Tags         task
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Task ID"
// @Param        projectId    path      string  true  "Project ID"
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  taskViewResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /task/{id}/project/{projectId}/workspace/{workspaceId} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	t, err := h.tasks.Get(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("projectId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskViewResponse{Message: "Task fetched successfully", Task: t})
}

// Delete removes a task of the workspace.
//
// @Summary      Delete task
// @Tags         task
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Task ID"
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  messageResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /task/{id}/workspace/{workspaceId}/delete [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func taskQuery(c echo.Context) (ports.ListTasksQuery, error) {
	page, err := pageFromQuery(c)
	if err != nil {
		return ports.ListTasksQuery{}, err
	}
	q := ports.ListTasksQuery{
		WorkspaceID: c.Param("workspaceId"),
		ProjectID:   c.QueryParam("projectId"),
		AssignedTo:  splitList(c.QueryParam("assignedTo")),
		Keyword:     strings.TrimSpace(c.QueryParam("keyword")),
		Page:        page,
	}
	for _, s := range splitList(c.QueryParam("status")) {
		q.Statuses = append(q.Statuses, domain.TaskStatus(s))
	}
	for _, p := range splitList(c.QueryParam("priority")) {
		q.Priorities = append(q.Priorities, domain.TaskPriority(p))
	}
	if raw := c.QueryParam("dueDate"); raw != "" {
		due, err := parseDueDate(raw)
		if err != nil {
			return ports.ListTasksQuery{}, err
		}
		q.DueDate = &due
	}
	return q, nil
}

// splitList splits a comma-separated query value, dropping blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError("dueDate must be YYYY-MM-DD")
}
