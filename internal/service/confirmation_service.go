package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
	"invitame/internal/theme"
	"invitame/internal/wizard"
)

// Confirmation is one verified payment signal for an order, carrying the
// metadata snapshot taken at checkout start.
type Confirmation struct {
	OrderID  int64
	Paid     bool
	Metadata map[string]string
}

// ReturnResult is what the buyer's browser learns after coming back from the
// hosted checkout.
type ReturnResult struct {
	OrderID int64  `json:"order_id"`
	Paid    bool   `json:"paid"`
	Slug    string `json:"slug,omitempty"`
}

type ConfirmationService struct {
	orders      OrderProvider
	plans       PlanProvider
	templates   TemplateProvider
	invitations InvitationProvider
	gateway     PaymentGateway
	now         func() time.Time
}

func NewConfirmationService(
	orders OrderProvider,
	plans PlanProvider,
	templates TemplateProvider,
	invitations InvitationProvider,
	gateway PaymentGateway,
) *ConfirmationService {
	return &ConfirmationService{
		orders:      orders,
		plans:       plans,
		templates:   templates,
		invitations: invitations,
		gateway:     gateway,
		now:         time.Now,
	}
}

// HandleWebhook verifies and applies a gateway push event. Only a bad
// signature is reported as an error; everything after verification is
// acknowledged so the gateway does not redeliver forever.
func (s *ConfirmationService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		slog.Warn("webhook rejected", "err", err)
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	if event.Type != domains.EventCheckoutCompleted {
		slog.Debug("webhook ignored", "event_id", event.ID, "type", event.Type)
		return nil
	}

	orderID, err := strconv.ParseInt(event.Session.ClientReferenceID, 10, 64)
	if err != nil {
		slog.Warn("webhook without order reference", "event_id", event.ID, "ref", event.Session.ClientReferenceID)
		return nil
	}

	if err := s.Confirm(ctx, Confirmation{
		OrderID:  orderID,
		Paid:     event.Session.Paid,
		Metadata: event.Session.Metadata,
	}); err != nil {
		slog.Error("webhook confirmation failed", "event_id", event.ID, "order_id", orderID, "err", err)
	}
	return nil
}

// HandleReturn re-verifies a checkout session with the gateway when the buyer
// lands on the success URL, and confirms it when paid.
func (s *ConfirmationService) HandleReturn(ctx context.Context, sessionID string) (ReturnResult, error) {
	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return ReturnResult{}, fmt.Errorf("retrieve checkout session: %w", err)
	}
	orderID, err := strconv.ParseInt(session.ClientReferenceID, 10, 64)
	if err != nil {
		slog.Warn("checkout session without order reference", "session_id", sessionID)
		return ReturnResult{}, nil
	}

	result := ReturnResult{OrderID: orderID, Paid: session.Paid}
	if !session.Paid {
		return result, nil
	}
	if err := s.Confirm(ctx, Confirmation{OrderID: orderID, Paid: true, Metadata: session.Metadata}); err != nil {
		slog.Error("return confirmation failed", "order_id", orderID, "err", err)
	}
	if inv, err := s.invitations.GetInvitationByOrder(ctx, orderID); err == nil {
		result.Slug = inv.Slug
	}
	return result, nil
}

// Confirm moves the order to paid and materializes its invitation. It is safe
// to call any number of times and concurrently for the same order: the unique
// order id on invitations lets exactly one insert win.
func (s *ConfirmationService) Confirm(ctx context.Context, c Confirmation) error {
	order, err := s.orders.GetOrderByID(ctx, c.OrderID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("confirmation for unknown order", "order_id", c.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get order %d: %w", c.OrderID, err)
	}

	if order.Status != domains.OrderPaid {
		if !c.Paid {
			slog.Info("order not paid yet", "order_id", order.ID)
			return nil
		}
		if _, err := s.orders.MarkOrderPaid(ctx, order.ID, s.now().UTC()); err != nil {
			return fmt.Errorf("mark order %d paid: %w", order.ID, err)
		}
	}

	inv, err := s.materialize(ctx, order, c.Metadata)
	if errors.Is(err, ErrDuplicateInvitation) {
		slog.Info("invitation already exists", "order_id", order.ID, "err", err)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("invitation created", "order_id", order.ID, "invitation_id", inv.ID, "slug", inv.Slug)
	return nil
}

func (s *ConfirmationService) materialize(ctx context.Context, order domains.Order, meta map[string]string) (domains.Invitation, error) {
	plan, err := s.plans.GetPlanByID(ctx, order.PlanID)
	if err != nil {
		return domains.Invitation{}, fmt.Errorf("get plan %d: %w", order.PlanID, err)
	}

	templateKey, composed, err := composeTheme(ctx, s.templates, meta)
	if err != nil {
		return domains.Invitation{}, err
	}

	eventAt, err := time.Parse(time.RFC3339, meta[domains.MetaDateISO])
	if err != nil {
		eventAt = s.now().UTC()
	}

	inv, err := s.invitations.CreateInvitation(ctx, domains.InvitationToSave{
		UserID:       order.UserID,
		OrderID:      order.ID,
		TemplateKey:  templateKey,
		Slug:         GeneratedSlug(order.UserID, order.ID),
		Title:        metaOr(meta, domains.MetaTitle, domains.DefaultTitle),
		EventAt:      eventAt,
		Venue:        metaOr(meta, domains.MetaVenue, domains.DefaultPlace),
		Address:      metaOr(meta, domains.MetaAddress, domains.DefaultPlace),
		Theme:        composed,
		SectionOrder: wizard.SectionOrder(plan, meta[domains.MetaRegistry], meta[domains.MetaMusicURL]),
		Status:       domains.InvitationActive,
	})
	if errors.Is(err, storage.ErrConflict) {
		return domains.Invitation{}, fmt.Errorf("%w: order %d", ErrDuplicateInvitation, order.ID)
	}
	if err != nil {
		return domains.Invitation{}, fmt.Errorf("insert invitation for order %d: %w", order.ID, err)
	}
	return inv, nil
}

// composeTheme resolves the template named in meta and layers the buyer's
// palette, message and event details over its base theme. A missing template
// keeps its key but composes over the built-in default theme.
func composeTheme(ctx context.Context, templates TemplateProvider, meta map[string]string) (string, theme.Theme, error) {
	templateKey := metaOr(meta, domains.MetaTemplateKey, domains.DefaultTemplateKey)
	var base *theme.Theme
	tpl, err := templates.GetTemplateByKey(ctx, templateKey)
	switch {
	case err == nil:
		base, _ = theme.ParseBase(tpl.BaseTheme)
	case errors.Is(err, storage.ErrNotFound):
		slog.Warn("template missing, using default theme", "template_key", templateKey)
	default:
		return "", theme.Theme{}, fmt.Errorf("get template %q: %w", templateKey, err)
	}

	composed := theme.Compose(base,
		theme.Palette(metaOr(meta, domains.MetaPalette, domains.DefaultPalette)),
		theme.Intro(meta[domains.MetaMessage]),
		metaSection(meta),
	)
	return templateKey, composed, nil
}

// GeneratedSlug is the slug assigned at materialization. Order ids are unique,
// so it cannot collide with another generated slug.
func GeneratedSlug(userID, orderID int64) string {
	return fmt.Sprintf("%s%d-%d", generatedSlugPrefix, userID, orderID)
}

// metaSection carries the event details that have no invitation column into
// the theme's meta section.
func metaSection(meta map[string]string) theme.Theme {
	sec := theme.Section{}
	sec.Set(domains.MetaShowMap, meta[domains.MetaShowMap] == "true")
	sec.Set(domains.MetaMusicAutoplay, meta[domains.MetaMusicAutoplay] == "true")
	for _, key := range []string{domains.MetaDressCode, domains.MetaRegistry, domains.MetaMusicURL} {
		if v := strings.TrimSpace(meta[key]); v != "" {
			sec.Set(key, v)
		}
	}
	return theme.Theme{Meta: sec}
}

func metaOr(meta map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(meta[key]); v != "" {
		return v
	}
	return fallback
}
