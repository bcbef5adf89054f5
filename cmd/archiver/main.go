// Command archiver runs one archive sweep and exits. Operators use it to
// catch up after downtime without waiting for the daily schedule.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"invitame/internal/app"
	"invitame/internal/config"
	"invitame/internal/scheduler"
	"invitame/internal/service"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	stores, closeStores, err := app.OpenStores(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeStores()

	sweeper := service.NewArchiveService(stores.Archive, cfg.Archive.BatchSize)
	archived := scheduler.NewArchiveScheduler(sweeper, cfg.Archive.Schedule, cfg.Archive.Timeout).RunOnce(context.Background())
	slog.Info("done", "archived", archived)
}
