// @title           Tasker API
// @version         1.0
// @description     Multi-tenant todo lists and tasks with bearer-token auth, filtering, pagination and timeline status.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Tasker/internal/app"
	"Tasker/internal/config"

	_ "Tasker/docs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "tasker").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.App.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if lvl, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		log = log.Level(lvl)
	} else {
		log.Warn().Str("level", cfg.App.LogLevel).Msg("unknown LOG_LEVEL, using info")
		log = log.Level(zerolog.InfoLevel)
	}
	log.Info().Str("env", cfg.App.Env).Str("version", cfg.App.Version).Msg("config loaded, connecting to DB and Redis")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(initCtx, cfg, log)
	cancelInit()
	if err != nil {
		log.Fatal().Err(err).Msg("app init")
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("app close")
	}
}
