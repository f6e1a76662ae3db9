// Package app assembles the storage driver, security adapters, services and
// HTTP router from configuration and runs them until the context ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/teamsync/workspace-api/internal/api"
	"github.com/teamsync/workspace-api/internal/api/handler"
	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/core/rbac"
	"github.com/teamsync/workspace-api/internal/core/service"
	"github.com/teamsync/workspace-api/internal/infrastructure/crypto"
	"github.com/teamsync/workspace-api/internal/infrastructure/db/memory"
	mongostore "github.com/teamsync/workspace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/teamsync/workspace-api/internal/infrastructure/db/redis"
	"github.com/teamsync/workspace-api/internal/infrastructure/http/handlers"
	"github.com/teamsync/workspace-api/internal/infrastructure/oauth"
	"github.com/teamsync/workspace-api/internal/infrastructure/token"
	"github.com/teamsync/workspace-api/internal/pkg/config"
)

type Application struct {
	cfg      *config.Config
	log      zerolog.Logger
	echo     *echo.Echo
	closers  []func(context.Context) error
	registry *prometheus.Registry
}

// Option customises an Application.
type Option func(*Application)

// WithMetricsRegistry serves HTTP metrics from reg instead of the global
// Prometheus registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(a *Application) { a.registry = reg }
}

// New connects the configured backends, seeds the role rows and builds the
// router. Connections opened before a failure are closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (_ *Application, err error) {
	app := &Application{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(app)
	}
	defer func() {
		if err != nil {
			_ = app.close(context.Background())
		}
	}()

	table, err := rbac.Build(rbac.Overrides{
		domain.RoleAdmin:  cfg.RBAC.AdminPermissions,
		domain.RoleMember: cfg.RBAC.MemberPermissions,
	})
	if err != nil {
		return nil, err
	}

	readiness := map[string]handlers.Pinger{}
	repos, err := app.initStorage(ctx, readiness)
	if err != nil {
		return nil, err
	}
	if err := service.SeedRoles(ctx, repos.Roles, table); err != nil {
		return nil, err
	}

	sec, err := app.initSecurity(ctx, readiness)
	if err != nil {
		return nil, err
	}

	var google ports.IdentityProvider
	if cfg.Google.Enabled() {
		g, err := oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.CallbackURL,
		})
		if err != nil {
			return nil, err
		}
		google = g
	}

	svc := NewServices(repos, table, sec, log)
	deps := api.Deps{
		Log:                 log,
		FrontendOrigin:      cfg.FrontendOrigin,
		FrontendCallbackURL: cfg.Google.FrontendCallbackURL,
		AuthRateLimit:       cfg.AuthRateLimit,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			TTL:    cfg.Auth.TokenTTL,
			Secure: cfg.IsProduction(),
		},
		Google:      google,
		Verifier:    sec.Verifier,
		Revocations: sec.Revocations,
		Auth:        svc.Auth,
		Membership:  svc.Membership,
		Workspaces:  svc.Workspaces,
		Projects:    svc.Projects,
		Tasks:       svc.Tasks,
		Readiness:   readiness,
	}
	if app.registry != nil {
		deps.Registerer = app.registry
		deps.Gatherer = app.registry
	}
	app.echo = api.NewRouter(deps)
	return app, nil
}

func (a *Application) initStorage(ctx context.Context, readiness map[string]handlers.Pinger) (Repositories, error) {
	if a.cfg.StoreDriver == config.StoreMemory {
		a.log.Warn().Msg("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		readiness["memory"] = store
		return MemoryRepositories(store), nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
	if err != nil {
		return Repositories{}, fmt.Errorf("mongo: %w", err)
	}
	a.closers = append(a.closers, client.Disconnect)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return Repositories{}, err
	}
	readiness["mongodb"] = mongostore.NewTxManager(client)
	a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("connected to mongodb")
	return MongoRepositories(client, db), nil
}

func (a *Application) initSecurity(ctx context.Context, readiness map[string]handlers.Pinger) (Security, error) {
	var sec Security
	switch a.cfg.Auth.Hasher {
	case config.HasherArgon2id:
		sec.Hasher = crypto.NewArgon2Hasher(crypto.DefaultArgon2Params)
	default:
		sec.Hasher = crypto.NewBcryptHasher(a.cfg.Auth.BcryptCost)
	}

	jwtManager, err := token.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL)
	if err != nil {
		return Security{}, err
	}
	sec.Tokens = jwtManager
	sec.Verifier = jwtManager

	if !a.cfg.Redis.Enabled {
		a.log.Warn().Msg("redis disabled; logout will not revoke tokens")
		return sec, nil
	}
	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return Security{}, fmt.Errorf("redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	revocations := redisstore.NewRevocationStore(client)
	sec.Revocations = revocations
	readiness["redis"] = revocations
	return sec, nil
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler { return a.echo }

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the shutdown timeout and closes backend connections.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("http server starting")
		if err := a.echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := a.echo.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("graceful server shutdown failed")
			errs = append(errs, a.echo.Close())
		}
		errs = append(errs, a.close(shutdownCtx))
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (a *Application) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
