package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

type ProjectHandler struct {
	projects ports.ProjectService
}

func NewProjectHandler(projects ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create adds a project to the workspace.
//
// @Summary      Create project
// @Tags         project
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        workspaceId  path      string                true  "Workspace ID"
// @Param        body         body      createProjectRequest  true  "Project"
// @Success      201          {object}  projectResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /project/workspace/{workspaceId}/create [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	p, err := h.projects.Create(c.Request().Context(), userID, c.Param("workspaceId"), ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, projectResponse{Message: "Project created successfully", Project: p})
}

// List pages through the workspace's projects, newest first.
//
// @Summary      List projects
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        workspaceId  path      string  true   "Workspace ID"
// @Param        pageSize     query     int     false  "Page size (default 10)"
// @Param        pageNumber   query     int     false  "Page number (default 1)"
// @Success      200          {object}  projectListResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /project/workspace/{workspaceId}/all [get]
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	res, err := h.projects.List(c.Request().Context(), userID, c.Param("workspaceId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectListResponse{
		Message:    "Project fetched successfully",
		Projects:   res.Projects,
		Pagination: res.Pagination,
	})
}

// Get returns one project of the workspace.
//
// @Summary      Get project
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Project ID"
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  projectResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /project/{id}/workspace/{workspaceId} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	p, err := h.projects.Get(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectResponse{Message: "Project fetched successfully", Project: p})
}

// Analytics counts the project's tasks.
//
// @Summary      Project analytics
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Project ID"
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  analyticsResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /project/{id}/workspace/{workspaceId}/analytics [get]
func (h *ProjectHandler) Analytics(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	a, err := h.projects.Analytics(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsResponse{Message: "Project analytics retrieved successfully", Analytics: a})
}

// Update edits name, description or emoji.
//
// @Summary      Update project
// @Tags         project
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string                true  "Project ID"
// @Param        workspaceId  path      string                true  "Workspace ID"
// @Param        body         body      updateProjectRequest  true  "Fields to change"
// @Success      200          {object}  projectResponse
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /project/{id}/workspace/{workspaceId}/update [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	p, err := h.projects.Update(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("id"), ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectResponse{Message: "Project updated successfully", Project: p})
}

// Delete removes the project and its tasks.
//
// @Summary      Delete project
// @Tags         project
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Project ID"
// @Param        workspaceId  path      string  true  "Workspace ID"
// @Success      200          {object}  messageResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /project/{id}/workspace/{workspaceId}/delete [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.Request().Context(), userID, c.Param("workspaceId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}

// pageFromQuery reads pageSize and pageNumber. Absent values take the
// defaults; non-numeric values are rejected.
func pageFromQuery(c echo.Context) (domain.PageRequest, error) {
	var size, number int
	err := echo.QueryParamsBinder(c).
		Int("pageSize", &size).
		Int("pageNumber", &number).
		BindError()
	if err != nil {
		return domain.PageRequest{}, domain.NewValidationError("pageSize and pageNumber must be integers")
	}
	return domain.NewPageRequest(number, size), nil
}
