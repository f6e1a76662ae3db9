package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/teamsync/workspace-api/internal/api/handler"
	"github.com/teamsync/workspace-api/internal/api/middleware"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/infrastructure/http/handlers"
)

// Deps is everything the HTTP layer needs. Google and Revocations are
// optional.
type Deps struct {
	Log zerolog.Logger

	FrontendOrigin      string
	FrontendCallbackURL string
	// AuthRateLimit is requests per second per client IP on /auth; <= 0 disables it.
	AuthRateLimit float64
	Cookie        handler.CookieConfig
	Google        ports.IdentityProvider

	Verifier    ports.TokenVerifier
	Revocations ports.TokenRevocationStore

	Auth       ports.AuthService
	Membership ports.MembershipService
	Workspaces ports.WorkspaceService
	Projects   ports.ProjectService
	Tasks      ports.TaskService

	Readiness map[string]handlers.Pinger

	// Metrics default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "teamsync",
		Registerer: d.Registerer,
	}))
	if d.FrontendOrigin != "" {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     []string{d.FrontendOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
			AllowCredentials: true,
		}))
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, handler.AuthHandlerConfig{
		Cookie:              d.Cookie,
		Google:              d.Google,
		FrontendOrigin:      d.FrontendOrigin,
		FrontendCallbackURL: d.FrontendCallbackURL,
	})
	userHandler := handler.NewUserHandler(d.Auth)
	memberHandler := handler.NewMemberHandler(d.Membership)
	workspaceHandler := handler.NewWorkspaceHandler(d.Workspaces)
	projectHandler := handler.NewProjectHandler(d.Projects)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	requireAuth := middleware.Auth(d.Verifier, d.Revocations, d.Cookie.Name)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	if d.AuthRateLimit > 0 {
		authGroup.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(d.AuthRateLimit))))
	}
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/logout", authHandler.Logout, requireAuth)
	if authHandler.GoogleEnabled() {
		authGroup.GET("/google", authHandler.GoogleLogin)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)
	}

	e.GET("/user/current", userHandler.Current, requireAuth)
	e.POST("/member/workspace/:inviteCode/join", memberHandler.Join, requireAuth)

	// --- Workspace routes ---
	ws := e.Group("/workspace", requireAuth)
	ws.POST("/create/new", workspaceHandler.Create)
	ws.GET("/all", workspaceHandler.List)
	ws.GET("/members/:id", workspaceHandler.Members)
	ws.GET("/analytics/:id", workspaceHandler.Analytics)
	ws.PUT("/change/member/role/:id", workspaceHandler.ChangeMemberRole)
	ws.PUT("/update/:id", workspaceHandler.Update)
	ws.PUT("/reset/invite/:id", workspaceHandler.ResetInviteCode)
	ws.DELETE("/delete/:id", workspaceHandler.Delete)
	ws.DELETE("/:id/member/:userId", workspaceHandler.RemoveMember)
	ws.GET("/:id", workspaceHandler.Get)

	// --- Project routes ---
	proj := e.Group("/project", requireAuth)
	proj.POST("/workspace/:workspaceId/create", projectHandler.Create)
	proj.GET("/workspace/:workspaceId/all", projectHandler.List)
	proj.GET("/:id/workspace/:workspaceId", projectHandler.Get)
	proj.GET("/:id/workspace/:workspaceId/analytics", projectHandler.Analytics)
	proj.PUT("/:id/workspace/:workspaceId/update", projectHandler.Update)
	proj.DELETE("/:id/workspace/:workspaceId/delete", projectHandler.Delete)

	// --- Task routes ---
	task := e.Group("/task", requireAuth)
	task.POST("/project/:projectId/workspace/:workspaceId/create", taskHandler.Create)
	task.GET("/workspace/:workspaceId/all", taskHandler.List)
	task.GET("/:id/project/:projectId/workspace/:workspaceId", taskHandler.Get)
	task.PUT("/:id/project/:projectId/workspace/:workspaceId/update", taskHandler.Update)
	task.DELETE("/:id/workspace/:workspaceId/delete", taskHandler.Delete)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness, d.Log).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
