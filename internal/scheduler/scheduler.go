package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultArchiveSpec = "15 3 * * *"

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// ArchiveScheduler runs the archive sweep on a cron schedule. Runs never
// overlap: a tick that fires while a sweep is still going is skipped.
type ArchiveScheduler struct {
	sweeper Sweeper
	spec    string
	timeout time.Duration
}

func NewArchiveScheduler(sweeper Sweeper, spec string, timeout time.Duration) *ArchiveScheduler {
	if spec == "" {
		spec = DefaultArchiveSpec
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &ArchiveScheduler{sweeper: sweeper, spec: spec, timeout: timeout}
}

// Start registers the job and runs the scheduler until ctx is done.
func (s *ArchiveScheduler) Start(ctx context.Context) error {
	if s.sweeper == nil {
		slog.Warn("archive scheduler skipped: no sweeper configured")
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return err
	}
	c.Start()
	slog.Info("archive scheduler started", "spec", s.spec)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		slog.Info("archive scheduler stopped")
	}()
	return nil
}

// RunOnce performs a single sweep bounded by the scheduler timeout.
func (s *ArchiveScheduler) RunOnce(ctx context.Context) int64 {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	archived, err := s.sweeper.Sweep(runCtx)
	if err != nil {
		slog.Error("archive sweep failed", "err", err, "archived", archived)
		return archived
	}
	slog.Info("archive sweep finished", "archived", archived, "took", time.Since(started))
	return archived
}
