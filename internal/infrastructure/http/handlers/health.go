package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness godoc
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready. Every registered dependency is
// pinged concurrently; any failure answers 503.
type ReadinessHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	log     zerolog.Logger
}

func NewReadinessHandler(checks map[string]Pinger, log zerolog.Logger) *ReadinessHandler {
	return &ReadinessHandler{checks: checks, timeout: 3 * time.Second, log: log}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		mu      sync.Mutex
		deps    = make(map[string]dependencyStatus, len(names))
		healthy = true
	)
	var g errgroup.Group
	for _, name := range names {
		pinger := h.checks[name]
		g.Go(func() error {
			st := dependencyStatus{Status: "ok"}
			if err := pinger.Ping(ctx); err != nil {
				// Driver errors stay in the log, never in the response.
				h.log.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
				st = dependencyStatus{Status: "unhealthy", Error: "unreachable"}
			}
			mu.Lock()
			defer mu.Unlock()
			deps[name] = st
			if st.Status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
