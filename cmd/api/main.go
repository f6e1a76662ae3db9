package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/teamsync/workspace-api/docs"
	"github.com/teamsync/workspace-api/internal/app"
	"github.com/teamsync/workspace-api/internal/pkg/config"
	"github.com/teamsync/workspace-api/pkg/logger"
)

// @title                       TeamSync Workspace API
// @version                     1.0
// @description                 Multi-tenant workspaces, projects and tasks with role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "teamsync-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise application")
	}

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
