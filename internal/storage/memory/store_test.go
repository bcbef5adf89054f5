package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

func seeded(t *testing.T) (*Store, int64, domains.Order) {
	t.Helper()
	s := New()
	Seed(s)
	ctx := context.Background()
	uid, err := s.SaveUser(ctx, "hash", domains.Account{Email: "Ana@Example.com"})
	require.NoError(t, err)
	plan, err := s.GetPlanByCode(ctx, "basic")
	require.NoError(t, err)
	order, err := s.CreateOrder(ctx, uid, plan.ID)
	require.NoError(t, err)
	return s, uid, order
}

func TestSeedCatalog(t *testing.T) {
	s := New()
	Seed(s)
	ctx := context.Background()

	plans, err := s.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"basic", "pro", "premium"}, []string{plans[0].Code, plans[1].Code, plans[2].Code})
	assert.True(t, plans[0].Unpriced())

	tpl, err := s.GetTemplateByKey(ctx, "boda-jardin")
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.BaseTheme)

	_, err = s.GetPlanByCode(ctx, "gold")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccounts(t *testing.T) {
	s, uid, _ := seeded(t)
	ctx := context.Background()

	_, err := s.SaveUser(ctx, "x", domains.Account{Email: "ana@example.com"})
	assert.ErrorIs(t, err, storage.ErrUserExist)

	acc, err := s.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, acc.ID)
	assert.Equal(t, domains.RoleCustomer, acc.Role)

	_, err = s.GetUserByID(ctx, 12345)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestMarkOrderPaid(t *testing.T) {
	s, _, order := seeded(t)
	ctx := context.Background()

	changed, err := s.MarkOrderPaid(ctx, order.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.MarkOrderPaid(ctx, order.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.MarkOrderPaid(ctx, 999, time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateInvitation_Uniqueness(t *testing.T) {
	s, uid, order := seeded(t)
	ctx := context.Background()
	in := domains.InvitationToSave{UserID: uid, OrderID: order.ID, Slug: "evento-a", Status: domains.InvitationActive}

	inv, err := s.CreateInvitation(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domains.DefaultArchiveDays, inv.AutoArchiveDays)
	assert.NotNil(t, inv.PublishedAt)

	in.Slug = "evento-b"
	_, err = s.CreateInvitation(ctx, in)
	assert.ErrorIs(t, err, storage.ErrConflict)

	other, err := s.CreateOrder(ctx, uid, order.PlanID)
	require.NoError(t, err)
	_, err = s.CreateInvitation(ctx, domains.InvitationToSave{UserID: uid, OrderID: other.ID, Slug: "evento-a"})
	assert.ErrorIs(t, err, storage.ErrSlugConflict)
}

func TestLockDate(t *testing.T) {
	s, uid, order := seeded(t)
	ctx := context.Background()
	inv, err := s.CreateInvitation(ctx, domains.InvitationToSave{UserID: uid, OrderID: order.ID, Slug: "evento-a", Status: domains.InvitationActive})
	require.NoError(t, err)

	assert.ErrorIs(t, s.LockDate(ctx, inv.ID, uid+1, time.Now()), storage.ErrNotFound)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.LockDate(ctx, inv.ID, uid, at))
	assert.ErrorIs(t, s.LockDate(ctx, inv.ID, uid, at.Add(time.Hour)), storage.ErrLocked)
	assert.ErrorIs(t, s.UpdateSlug(ctx, inv.ID, uid, "nuevo"), storage.ErrLocked)

	got, err := s.GetInvitation(ctx, inv.ID, uid)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.EventAt))
	assert.Equal(t, "evento-a", got.Slug)
}

func TestReturnedInvitationsAreCopies(t *testing.T) {
	s, uid, order := seeded(t)
	ctx := context.Background()
	inv, err := s.CreateInvitation(ctx, domains.InvitationToSave{
		UserID: uid, OrderID: order.ID, Slug: "evento-a", SectionOrder: []string{"hero", "rsvp"},
	})
	require.NoError(t, err)

	inv.SectionOrder[0] = "changed"
	got, err := s.GetInvitation(ctx, inv.ID, uid)
	require.NoError(t, err)
	assert.Equal(t, "hero", got.SectionOrder[0])
}

func TestArchive(t *testing.T) {
	s, uid, _ := seeded(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	plan, err := s.GetPlanByCode(ctx, "basic")
	require.NoError(t, err)

	var ids []int64
	for i, age := range []int{40, 31, 29, 60} {
		o, err := s.CreateOrder(ctx, uid, plan.ID)
		require.NoError(t, err)
		inv, err := s.CreateInvitation(ctx, domains.InvitationToSave{
			UserID: uid, OrderID: o.ID, Slug: "evento-" + string(rune('a'+i)),
			EventAt: now.AddDate(0, 0, -age), Status: domains.InvitationActive,
		})
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}

	got, err := s.ListArchivable(ctx, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[1], ids[3]}, got)

	got, err = s.ListArchivable(ctx, now, ids[0], 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1]}, got)

	n, err := s.ArchiveInvitations(ctx, []int64{ids[0], ids[2]}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = s.ArchiveInvitations(ctx, []int64{ids[0]}, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := s.ListInvitationsByUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
