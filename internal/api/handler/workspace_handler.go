package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/ports"
)

type WorkspaceHandler struct {
	workspaces ports.WorkspaceService
}

func NewWorkspaceHandler(workspaces ports.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// Create adds a workspace owned by the caller and makes it current.
//
// @Summary      Create workspace
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWorkspaceRequest  true  "Workspace"
// @Success      201   {object}  workspaceResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /workspace/create/new [post]
func (h *WorkspaceHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createWorkspaceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ws, err := h.workspaces.Create(c.Request().Context(), userID, ports.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, workspaceResponse{Message: "Workspace created successfully", Workspace: ws})
}

// List returns every workspace the caller belongs to.
//
// @Summary      List my workspaces
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  workspaceListResponse
// @Failure      401  {object}  errorResponse
// @Router       /workspace/all [get]
func (h *WorkspaceHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.workspaces.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaceListResponse{Message: "User workspaces fetched successfully", Workspaces: list})
}

// Get returns the workspace with the caller's role and its members.
//
// @Summary      Get workspace
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workspace ID"
// @Success      200  {object}  workspaceDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workspace/{id} [get]
func (h *WorkspaceHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	detail, err := h.workspaces.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaceDetailResponse{
		Message:   "Workspace fetched successfully",
		Workspace: detail.Workspace,
		Role:      detail.Role,
		Members:   detail.Members,
	})
}

// Members lists members with their user and role, plus the assignable roles.
//
// @Summary      Workspace members
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workspace ID"
// @Success      200  {object}  workspaceMembersResponse
// @Failure      403  {object}  errorResponse
// @Router       /workspace/members/{id} [get]
func (h *WorkspaceHandler) Members(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	res, err := h.workspaces.Members(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaceMembersResponse{
		Message: "Workspace members retrieved successfully",
		Members: res.Members,
		Roles:   res.Roles,
	})
}

// Analytics counts the workspace's tasks.
//
// @Summary      Workspace analytics
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workspace ID"
// @Success      200  {object}  analyticsResponse
// @Failure      403  {object}  errorResponse
// @Router       /workspace/analytics/{id} [get]
func (h *WorkspaceHandler) Analytics(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	a, err := h.workspaces.Analytics(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsResponse{Message: "Workspace analytics retrieved successfully", Analytics: a})
}

// ChangeMemberRole assigns another seeded role to a member.
//
// @Summary      Change member role
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Workspace ID"
// @Param        body  body      changeRoleRequest  true  "Member and role"
// @Success      200   {object}  memberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /workspace/change/member/role/{id} [put]
func (h *WorkspaceHandler) ChangeMemberRole(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	m, err := h.workspaces.ChangeMemberRole(c.Request().Context(), userID, c.Param("id"), req.MemberID, req.RoleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, memberResponse{Message: "Member Role changed successfully", Member: m})
}

// Update edits name or description.
//
// @Summary      Update workspace
// @Tags         workspace
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Workspace ID"
// @Param        body  body      updateWorkspaceRequest  true  "Fields to change"
// @Success      200   {object}  workspaceResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /workspace/update/{id} [put]
func (h *WorkspaceHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateWorkspaceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ws, err := h.workspaces.Update(c.Request().Context(), userID, c.Param("id"), ports.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaceResponse{Message: "Workspace updated successfully", Workspace: ws})
}

// Delete removes the workspace and everything in it.
//
// @Summary      Delete workspace
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workspace ID"
// @Success      200  {object}  deleteWorkspaceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /workspace/delete/{id} [delete]
func (h *WorkspaceHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	current, err := h.workspaces.Delete(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteWorkspaceResponse{Message: "Workspace deleted successfully", CurrentWorkspace: current})
}

// ResetInviteCode issues a fresh invite code; the old one stops working.
//
// @Summary      Reset invite code
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Workspace ID"
// @Success      200  {object}  workspaceResponse
// @Failure      403  {object}  errorResponse
// @Router       /workspace/reset/invite/{id} [put]
func (h *WorkspaceHandler) ResetInviteCode(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ws, err := h.workspaces.ResetInviteCode(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaceResponse{Message: "Invite code reset successfully", Workspace: ws})
}

// RemoveMember removes a non-owner member from the workspace.
//
// @Summary      Remove member
// @Tags         workspace
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Workspace ID"
// @Param        userId  path      string  true  "Member user ID"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /workspace/{id}/member/{userId} [delete]
func (h *WorkspaceHandler) RemoveMember(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.workspaces.RemoveMember(c.Request().Context(), userID, c.Param("id"), c.Param("userId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Member removed successfully"})
}
