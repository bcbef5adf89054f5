package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitame/internal/domains"
)

func completedEvent(t *testing.T, orderID int64, paid bool, meta map[string]string) []byte {
	t.Helper()
	b, err := json.Marshal(domains.GatewayEvent{
		ID:   "evt_1",
		Type: domains.EventCheckoutCompleted,
		Session: domains.CheckoutSession{
			ID:                "cs_x",
			ClientReferenceID: strconv.FormatInt(orderID, 10),
			Paid:              paid,
			Metadata:          meta,
		},
	})
	require.NoError(t, err)
	return b
}

func TestConfirm_MaterializesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.pro, domains.Draft{Title: "Boda de Ana", TemplateKey: "boda", DateISO: "2026-05-01T18:00:00Z"})

	for i := 0; i < 5; i++ {
		require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta}))
	}

	list, err := f.store.ListInvitationsByUser(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.ID, list[0].OrderID)
	assert.Equal(t, GeneratedSlug(f.buyer, order.ID), list[0].Slug)
	assert.Equal(t, "pro", list[0].PlanCode)

	stored, err := f.store.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domains.OrderPaid, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestConfirm_ConcurrentDeliveries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	list, err := f.store.ListInvitationsByUser(ctx, f.buyer)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConfirm_DuplicateIsNotAnError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{})
	require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta}))

	_, err := f.confirm.materialize(ctx, order, meta)
	assert.ErrorIs(t, err, ErrDuplicateInvitation)
	assert.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta}))
}

func TestConfirm_UnknownOrderAcknowledged(t *testing.T) {
	f := newFixture()
	assert.NoError(t, f.confirm.Confirm(context.Background(), Confirmation{OrderID: 9999, Paid: true}))
}

func TestConfirm_PendingUnpaidIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{})

	require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: false, Metadata: meta}))

	stored, err := f.store.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domains.OrderPending, stored.Status)
	_, err = f.store.GetInvitationByOrder(ctx, order.ID)
	assert.Error(t, err)
}

func TestConfirm_PaidOrderStillMaterializes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{})
	_, err := f.store.MarkOrderPaid(ctx, order.ID, time.Now())
	require.NoError(t, err)

	// a redelivery that only says "not paid" must not undo a paid order
	require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: false, Metadata: meta}))

	_, err = f.store.GetInvitationByOrder(ctx, order.ID)
	assert.NoError(t, err)
}

func TestConfirm_ComposesThemeFromTemplate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.pro, domains.Draft{
		TemplateKey:   "boda",
		Title:         "Boda de Ana y Luis",
		DateISO:       "2026-05-01T18:00:00Z",
		Venue:         "Jardín Real",
		Palette:       `{"accent":"#c0a060"}`,
		Message:       "Nos casamos",
		Registry:      "https://mesa.example/ana",
		MusicURL:      "https://example.com/song.mp3",
		MusicAutoplay: true,
		ShowMap:       true,
	})

	require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta}))

	inv, err := f.store.GetInvitationByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "boda", inv.TemplateKey)
	assert.Equal(t, "Boda de Ana y Luis", inv.Title)
	assert.Equal(t, "Jardín Real", inv.Venue)
	assert.Equal(t, domains.DefaultPlace, inv.Address)
	assert.Equal(t, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), inv.EventAt.UTC())
	assert.Equal(t, domains.InvitationActive, inv.Status)
	assert.NotNil(t, inv.PublishedAt)

	assert.Equal(t, "#fff", inv.Theme.Colors.String("bg"))
	assert.Equal(t, "#c0a060", inv.Theme.Colors.String("accent"))
	assert.Equal(t, "Playfair", inv.Theme.Fonts.String("heading"))
	assert.Equal(t, "Nos casamos", inv.Theme.Copy.String("intro"))
	assert.Equal(t, "https://mesa.example/ana", inv.Theme.Meta.String("registry"))
	assert.JSONEq(t, "true", string(inv.Theme.Meta["music_autoplay"]))
	gallery, ok := inv.Theme.Media.Strings("gallery")
	require.True(t, ok)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, gallery)

	assert.Equal(t,
		[]string{"hero", "detalles", "mensaje", "galeria", "ubicacion", "registry", "music", "rsvp", "footer"},
		inv.SectionOrder)
}

func TestConfirm_MissingTemplateKeepsKeyWithDefaultTheme(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{TemplateKey: "gone"})

	require.NoError(t, f.confirm.Confirm(ctx, Confirmation{OrderID: order.ID, Paid: true, Metadata: meta}))

	inv, err := f.store.GetInvitationByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone", inv.TemplateKey)
	assert.Equal(t, "#0e0e1a", inv.Theme.Colors.String("bg"))
	assert.Equal(t, domains.DefaultTitle, inv.Title)
	// basic plan never shows registry or music
	assert.NotContains(t, inv.SectionOrder, "registry")
}

func TestHandleWebhook_InvalidSignatureChangesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{})

	err := f.confirm.HandleWebhook(ctx, completedEvent(t, order.ID, true, meta), "forged")
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	stored, err := f.store.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domains.OrderPending, stored.Status)
	_, err = f.store.GetInvitationByOrder(ctx, order.ID)
	assert.Error(t, err)
}

func TestHandleWebhook_CompletedMaterializes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order, meta := f.paidOrder(f.basic, domains.Draft{Title: "XV de Sofía"})
	payload := completedEvent(t, order.ID, true, meta)

	require.NoError(t, f.confirm.HandleWebhook(ctx, payload, "valid"))
	require.NoError(t, f.confirm.HandleWebhook(ctx, payload, "valid"))

	inv, err := f.store.GetInvitationByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "XV de Sofía", inv.Title)
}

func TestHandleWebhook_IgnoredEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	other, err := json.Marshal(domains.GatewayEvent{ID: "evt_2", Type: "invoice.paid"})
	require.NoError(t, err)
	assert.NoError(t, f.confirm.HandleWebhook(ctx, other, "valid"))

	noRef, err := json.Marshal(domains.GatewayEvent{ID: "evt_3", Type: domains.EventCheckoutCompleted})
	require.NoError(t, err)
	assert.NoError(t, f.confirm.HandleWebhook(ctx, noRef, "valid"))

	assert.NoError(t, f.confirm.HandleWebhook(ctx, completedEvent(t, 424242, true, nil), "valid"))
}

func TestHandleReturn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	url, err := f.checkout.StartCheckout(ctx, domains.Draft{PlanCode: "basic", Title: "Fiesta"}, f.buyer)
	require.NoError(t, err)
	require.NotEmpty(t, url)
	orderID, err := strconv.ParseInt(f.gateway.requests[0].ClientReferenceID, 10, 64)
	require.NoError(t, err)

	res, err := f.confirm.HandleReturn(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, ReturnResult{OrderID: orderID, Paid: false}, res)

	f.gateway.markPaid("cs_1")
	res, err = f.confirm.HandleReturn(ctx, "cs_1")
	require.NoError(t, err)
	assert.True(t, res.Paid)
	assert.Equal(t, GeneratedSlug(f.buyer, orderID), res.Slug)

	_, err = f.confirm.HandleReturn(ctx, "cs_missing")
	assert.Error(t, err)
}
