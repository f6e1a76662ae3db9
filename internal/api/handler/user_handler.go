package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Current returns the signed-in user.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/current [get]
func (h *UserHandler) Current(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User fetched successfully", User: user})
}
