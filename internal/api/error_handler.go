package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  string `json:"code"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:          http.StatusBadRequest,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindAlreadyExists:       http.StatusConflict,
	domain.KindAuthorizationDenied: http.StatusForbidden,
	domain.KindNotAMember:          http.StatusForbidden,
	domain.KindUnauthenticated:     http.StatusUnauthorized,
	domain.KindRoleSeedMissing:     http.StatusInternalServerError,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error", "kind", "code"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			Error: fmt.Sprintf("%v", he.Message),
			Kind:  string(kindForStatus(he.Code)),
			Code:  http.StatusText(he.Code),
		}
	}

	if de, ok := domain.AsError(err); ok {
		status := kindStatus[de.Kind]
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if de.Kind == domain.KindRoleSeedMissing {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("role seed missing")
		}
		return status, errorResponse{Error: de.Message, Kind: string(de.Kind), Code: de.Code}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Kind:  string(domain.KindInternal),
		Code:  string(domain.KindInternal),
	}
}

// kindForStatus gives framework errors a kind clients can switch on.
func kindForStatus(status int) domain.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return domain.KindValidation
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated
	case http.StatusForbidden:
		return domain.KindAuthorizationDenied
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return domain.KindNotFound
	default:
		return domain.KindInternal
	}
}
