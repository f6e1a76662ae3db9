package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/ports"
)

type MemberHandler struct {
	membership ports.MembershipService
}

func NewMemberHandler(membership ports.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

// Join adds the caller to the workspace owning the invite code as MEMBER.
// Joining a workspace twice is reported with already_member set.
//
// @Summary      Join a workspace by invite code
// @Tags         member
// @Produce      json
// @Security     BearerAuth
// @Param        inviteCode  path      string  true  "Invite code"
// @Success      200         {object}  joinResponse
// @Failure      401         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /member/workspace/{inviteCode}/join [post]
func (h *MemberHandler) Join(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	res, err := h.membership.JoinByInvite(c.Request().Context(), userID, c.Param("inviteCode"))
	if err != nil {
		return err
	}

	msg := "Successfully joined the workspace"
	if res.AlreadyMember {
		msg = "You are already a member of this workspace"
	}
	resp := joinResponse{Message: msg, WorkspaceID: res.WorkspaceID, AlreadyMember: res.AlreadyMember}
	if res.Role != nil {
		resp.Role = res.Role.Name
	}
	return c.JSON(http.StatusOK, resp)
}
