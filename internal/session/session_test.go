package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitame/internal/domains"
)

func ptr[T any](v T) *T { return &v }

type store interface {
	Get(ctx context.Context, sessionID string) (domains.Draft, bool, error)
	Set(ctx context.Context, sessionID string, d domains.Draft) error
	Merge(ctx context.Context, sessionID string, patch domains.DraftPatch) (domains.Draft, error)
	Delete(ctx context.Context, sessionID string) error
}

func exerciseStore(t *testing.T, s store) {
	ctx := context.Background()
	sid := uuid.NewString()

	_, ok, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, sid, domains.Draft{PlanCode: "pro", Title: "Boda"}))

	merged, err := s.Merge(ctx, sid, domains.DraftPatch{Date: ptr("2026-05-01"), Time: ptr("18:00"), DateISO: ptr("2026-05-02T00:00:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "pro", merged.PlanCode)
	assert.Equal(t, "Boda", merged.Title)
	assert.Equal(t, "2026-05-02T00:00:00Z", merged.DateISO)

	got, ok, err := s.Get(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, merged, got)

	// last write wins
	_, err = s.Merge(ctx, sid, domains.DraftPatch{Title: ptr("Tab A")})
	require.NoError(t, err)
	_, err = s.Merge(ctx, sid, domains.DraftPatch{Title: ptr("Tab B")})
	require.NoError(t, err)
	got, _, err = s.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Tab B", got.Title)

	require.NoError(t, s.Delete(ctx, sid))
	_, ok, err = s.Get(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expires(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(context.Background(), "sid", domains.Draft{Title: "x"}))
	now = now.Add(2 * time.Minute)

	_, ok, err := s.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_MergeStartsEmptyDraft(t *testing.T) {
	s := NewMemoryStore(0)
	d, err := s.Merge(context.Background(), "fresh", domains.DraftPatch{Venue: ptr("Salón")})
	require.NoError(t, err)
	assert.Equal(t, "Salón", d.Venue)
}

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rdb, err := NewRedisClient(ctx, "localhost:6379", "", 0)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer rdb.Close()

	exerciseStore(t, NewRedisStore(rdb, time.Minute))

	sid := uuid.NewString()
	s := NewRedisStore(rdb, time.Minute)
	require.NoError(t, s.Set(context.Background(), sid, domains.Draft{Title: "ttl"}))
	ttl, err := rdb.TTL(context.Background(), key(sid)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
	require.NoError(t, rdb.Del(context.Background(), key(sid)).Err())
}
