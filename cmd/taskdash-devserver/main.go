// Package main runs the local task API used for development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"taskdash/internal/config"
	"taskdash/internal/devserver"
	"taskdash/internal/devserver/sqlite"
	"taskdash/internal/logging"
)

func main() {
	fs := pflag.NewFlagSet("taskdash-devserver", pflag.ExitOnError)
	addr := fs.String("addr", config.EnvOrDefault("TASKDASH_DEV_ADDR", ":8080"), "HTTP listen address")
	dbPath := fs.String("db", config.EnvOrDefault("TASKDASH_DEV_DB", sqlite.MemoryPath), "path to sqlite database file")
	secret := fs.String("jwt-secret", os.Getenv("TASKDASH_JWT_SECRET"), "HS256 signing secret")
	ttl := fs.Duration("token-ttl", devserver.DefaultTokenTTL, "lifetime of issued tokens")
	debug := fs.Bool("debug", false, "log every request")
	fs.Parse(os.Args[1:])

	logger := logging.New(os.Stderr, *debug)

	if *secret == "" {
		*secret = uuid.NewString()
		logger.Warn("no JWT secret configured, tokens will not survive a restart")
	}

	store, err := sqlite.Open(*dbPath, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	srv := devserver.New(store, []byte(*secret), logger, devserver.WithTokenTTL(*ttl))
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("db", *dbPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
