package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"invitame/internal/domains"
	"invitame/internal/session"
	"invitame/internal/storage/memory"
)

// fakeGateway records what the services send to the payment gateway.
type fakeGateway struct {
	mu         sync.Mutex
	prices     int
	priceErr   error
	sessionErr error
	requests   []domains.CheckoutSessionRequest
	sessions   map[string]domains.CheckoutSession
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]domains.CheckoutSession{}}
}

func (g *fakeGateway) CreatePrice(_ context.Context, productRef string, unitAmount int64, currency string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.priceErr != nil {
		return "", g.priceErr
	}
	g.prices++
	return fmt.Sprintf("price_%s_%d_%s_%d", productRef, unitAmount, currency, g.prices), nil
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req domains.CheckoutSessionRequest) (domains.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sessionErr != nil {
		return domains.CheckoutSession{}, g.sessionErr
	}
	g.requests = append(g.requests, req)
	id := fmt.Sprintf("cs_%d", len(g.requests))
	cs := domains.CheckoutSession{
		ID:                id,
		URL:               "https://pay.example/" + id,
		ClientReferenceID: req.ClientReferenceID,
		Metadata:          req.Metadata,
	}
	g.sessions[id] = cs
	return cs, nil
}

func (g *fakeGateway) GetCheckoutSession(_ context.Context, id string) (domains.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cs, ok := g.sessions[id]
	if !ok {
		return domains.CheckoutSession{}, errors.New("no such session")
	}
	return cs, nil
}

// markPaid simulates the buyer completing the hosted payment.
func (g *fakeGateway) markPaid(id string) domains.CheckoutSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	cs := g.sessions[id]
	cs.Paid = true
	g.sessions[id] = cs
	return cs
}

// ParseWebhook accepts the payload when the signature is "valid" and decodes
// it as a GatewayEvent.
func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (domains.GatewayEvent, error) {
	if signature != "valid" {
		return domains.GatewayEvent{}, errors.New("signature mismatch")
	}
	var ev domains.GatewayEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return domains.GatewayEvent{}, err
	}
	return ev, nil
}

// eventZone stands in for America/Mexico_City without needing tzdata.
var eventZone = time.FixedZone("CST", -6*60*60)

type fixture struct {
	store     *memory.Store
	gateway   *fakeGateway
	drafts    *session.MemoryStore
	templates *TemplateService
	checkout  *CheckoutService
	confirm   *ConfirmationService
	invites   *InvitationService
	wizard    *DraftService
	pro       domains.Plan
	basic     domains.Plan
	buyer     int64
}

func newFixture() *fixture {
	f := &fixture{
		store:   memory.New(),
		gateway: newFakeGateway(),
		drafts:  session.NewMemoryStore(0),
	}
	f.basic = f.store.AddPlan(domains.Plan{Code: "basic", Name: "Básico", PriceMXN: 499, TemplateScope: domains.TierGeneral, PriceRef: "prod_basic", Active: true})
	f.pro = f.store.AddPlan(domains.Plan{Code: "pro", Name: "Pro", PriceMXN: 899, AllowRegistry: true, AllowMusic: true, TemplateScope: domains.TierAll, PriceRef: "prod_pro", Active: true})
	f.store.AddTemplate(domains.Template{Key: "default", Tier: domains.TierGeneral, Category: "general", Active: true})
	f.store.AddTemplate(domains.Template{
		Key: "boda", Tier: domains.TierGeneral, Category: "boda", Active: true,
		BaseTheme: json.RawMessage(`{"colors":{"bg":"#fff","accent":"#111"},"fonts":{"heading":"Playfair"},"media":{"gallery":["a.jpg","b.jpg"]}}`),
	})
	f.store.AddTemplate(domains.Template{Key: "gala", Tier: domains.TierAll, Category: "xv", Active: true})

	buyer, err := f.store.SaveUser(context.Background(), "hash", domains.Account{Email: "ana@example.com"})
	if err != nil {
		panic(err)
	}
	f.buyer = buyer

	f.templates = NewTemplateService(f.store)
	f.checkout = NewCheckoutService(f.store, f.store, f.gateway, "https://invita.me")
	f.confirm = NewConfirmationService(f.store, f.store, f.store, f.store, f.gateway)
	f.invites = NewInvitationService(f.store, f.templates)
	f.wizard = NewDraftService(f.drafts, f.checkout, f.templates, eventZone)
	return f
}

// paidOrder creates a paid-ready order for the buyer and returns it with the
// metadata the checkout would have snapshotted.
func (f *fixture) paidOrder(plan domains.Plan, d domains.Draft) (domains.Order, map[string]string) {
	o, err := f.store.CreateOrder(context.Background(), f.buyer, plan.ID)
	if err != nil {
		panic(err)
	}
	d.PlanCode = plan.Code
	return o, d.Metadata(f.buyer, plan.Code, o.CreatedAt)
}

func ptr[T any](v T) *T { return &v }

func mustParseID(t *testing.T, s string) int64 {
	t.Helper()
	id, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return id
}
