// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"invitame/internal/config"
	"invitame/internal/payment"
	"invitame/internal/service"
	"invitame/internal/session"
	"invitame/internal/storage"
	"invitame/internal/storage/memory"
	"invitame/internal/storage/providers"
	httptransport "invitame/internal/transport/http"
)

// Stores are the storage ports the services depend on.
type Stores struct {
	Auth        service.AuthProvider
	Plans       service.PlanProvider
	Templates   service.TemplateProvider
	Orders      service.OrderProvider
	Invitations service.InvitationProvider
	Archive     service.ArchiveProvider
}

type App struct {
	Config   *config.Config
	Stores   Stores
	Services httptransport.Services
	Archive  *service.ArchiveService

	closers []func()
}

// OpenStores connects to Postgres when database_url is set and falls back to
// a seeded in-memory store otherwise.
func OpenStores(cfg *config.Config) (Stores, func(), error) {
	if cfg.DatabaseUrl == "" {
		slog.Warn("database_url empty, using in-memory storage")
		mem := memory.New()
		memory.Seed(mem)
		return Stores{
			Auth: mem, Plans: mem, Templates: mem, Orders: mem, Invitations: mem, Archive: mem,
		}, func() {}, nil
	}

	db, err := storage.InitDB(cfg.DatabaseUrl, 0)
	if err != nil {
		return Stores{}, nil, fmt.Errorf("connect database: %w", err)
	}
	p := providers.New(db)
	return Stores{
		Auth:        p.AuthProvider,
		Plans:       p.PlanProvider,
		Templates:   p.TemplateProvider,
		Orders:      p.OrderProvider,
		Invitations: p.InvitationProvider,
		Archive:     p.InvitationProvider,
	}, db.Close, nil
}

func openDrafts(ctx context.Context, cfg *config.Config) (service.DraftStore, func(), error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}
	rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("draft store on redis", "addr", cfg.Redis.Addr)
	return session.NewRedisStore(rdb, cfg.Session.TTL), func() { _ = rdb.Close() }, nil
}

// New builds every service the HTTP API needs.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	stores, closeStores, err := OpenStores(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStores)
	a.Stores = stores

	drafts, closeDrafts, err := openDrafts(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeDrafts)

	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)

	templates := service.NewTemplateService(stores.Templates)
	checkout := service.NewCheckoutService(stores.Plans, stores.Orders, gateway, cfg.App.BaseURL)
	a.Services = httptransport.Services{
		Auth:      service.NewAuthService(stores.Auth, cfg.JWT.Secret),
		Templates: templates,
		Drafts:    service.NewDraftService(drafts, checkout, templates, cfg.App.Location()),
		Checkout:  checkout,
		Confirm:   service.NewConfirmationService(stores.Orders, stores.Plans, stores.Templates, stores.Invitations, gateway),
		Panel:     service.NewInvitationService(stores.Invitations, templates),
	}
	a.Archive = service.NewArchiveService(stores.Archive, cfg.Archive.BatchSize)
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
