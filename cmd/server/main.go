package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"invitame/internal/app"
	"invitame/internal/config"
	"invitame/internal/scheduler"
	"invitame/internal/server"
	httptransport "invitame/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()
	setupLogger(cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	if err := scheduler.NewArchiveScheduler(a.Archive, cfg.Archive.Schedule, cfg.Archive.Timeout).Start(ctx); err != nil {
		log.Fatalf("failed to schedule archive sweep: %v", err)
	}

	router := httptransport.Router(a.Services, cfg)

	addr := ":" + cfg.Server.Port
	slog.Info("listening", "addr", addr, "env", cfg.Env)
	if err := server.Start(ctx, addr, cfg.CORS.AllowedOrigins, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func setupLogger(env string) {
	var h slog.Handler
	switch env {
	case "local":
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(h))
}
