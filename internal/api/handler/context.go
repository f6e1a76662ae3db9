package handler

import (
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/teamsync/workspace-api/internal/api/middleware"
	"github.com/teamsync/workspace-api/internal/core/domain"
)

// currentUserID returns the caller set by the Auth middleware. An empty id
// means the route was mounted without it.
func currentUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// bindBody decodes the JSON body into req and validates it.
func bindBody(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return c.Validate(req)
}

// jsonFieldName reports validation failures under the JSON name clients send.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
