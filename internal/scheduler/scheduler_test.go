package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (c *countingSweeper) Sweep(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep without deadline")
	}
	return c.n, c.err
}

func TestRunOnce(t *testing.T) {
	sw := &countingSweeper{n: 3}
	s := NewArchiveScheduler(sw, "", time.Second)

	assert.Equal(t, int64(3), s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), sw.calls.Load())
}

func TestRunOnce_ErrorIsLogged(t *testing.T) {
	sw := &countingSweeper{n: 1, err: errors.New("db down")}
	s := NewArchiveScheduler(sw, "", time.Second)

	assert.Equal(t, int64(1), s.RunOnce(context.Background()))
}

func TestDefaultSpecParses(t *testing.T) {
	sched, err := cron.ParseStandard(DefaultArchiveSpec)
	require.NoError(t, err)

	from := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 3, 15, 0, 0, time.UTC), sched.Next(from))
}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := NewArchiveScheduler(&countingSweeper{}, "every now and then", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, s.Start(ctx))
}

func TestStart_WithoutSweeper(t *testing.T) {
	s := NewArchiveScheduler(nil, "", time.Second)
	assert.NoError(t, s.Start(context.Background()))
}
