package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	e.Use(echomiddleware.RequestID())
	e.Use(RequestLogger(log))

	var ctxLogged bool
	e.GET("/things/:id", func(c echo.Context) error {
		c.Set(ContextUserID, "u1")
		ctxLogged = zerolog.Ctx(c.Request().Context()).GetLevel() != zerolog.Disabled
		return c.NoContent(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42?secret=x", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, ctxLogged, "request context should carry a logger")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/things/42", entry["path"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.NotContains(t, buf.String(), "secret=x")
}
