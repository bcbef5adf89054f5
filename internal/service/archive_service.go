package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultArchiveBatch = 500

type ArchiveProvider interface {
	ListArchivable(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error)
	ArchiveInvitations(ctx context.Context, ids []int64, at time.Time) (int64, error)
}

// ArchiveService moves active invitations whose event is older than their
// archive window to archived. Sweeps are idempotent.
type ArchiveService struct {
	provider  ArchiveProvider
	batchSize int
	now       func() time.Time
}

func NewArchiveService(provider ArchiveProvider, batchSize int) *ArchiveService {
	if batchSize <= 0 {
		batchSize = defaultArchiveBatch
	}
	return &ArchiveService{provider: provider, batchSize: batchSize, now: time.Now}
}

// Sweep archives every eligible invitation, one keyset page at a time, and
// returns how many rows changed.
func (s *ArchiveService) Sweep(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	var total int64
	var after int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ids, err := s.provider.ListArchivable(ctx, now, after, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("list archivable after %d: %w", after, err)
		}
		if len(ids) == 0 {
			break
		}
		n, err := s.provider.ArchiveInvitations(ctx, ids, now)
		if err != nil {
			return total, fmt.Errorf("archive batch: %w", err)
		}
		total += n
		after = ids[len(ids)-1]
		if len(ids) < s.batchSize {
			break
		}
	}
	if total > 0 {
		slog.Info("invitations archived", "count", total)
	}
	return total, nil
}
