package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

const (
	currencyMXN = "mxn"
	successPath = "/site/success?session_id={CHECKOUT_SESSION_ID}"
	cancelPath  = "/site/crear"
)

// PaymentGateway is the hosted checkout the service charges through.
type PaymentGateway interface {
	CreatePrice(ctx context.Context, productRef string, unitAmount int64, currency string) (string, error)
	CreateCheckoutSession(ctx context.Context, req domains.CheckoutSessionRequest) (domains.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (domains.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (domains.GatewayEvent, error)
}

type PlanProvider interface {
	GetPlanByCode(ctx context.Context, code string) (domains.Plan, error)
	GetPlanByID(ctx context.Context, id int64) (domains.Plan, error)
	UpdatePlanPriceRef(ctx context.Context, id int64, ref string) error
	ListActivePlans(ctx context.Context) ([]domains.Plan, error)
}

type OrderProvider interface {
	CreateOrder(ctx context.Context, userID, planID int64) (domains.Order, error)
	SetOrderSession(ctx context.Context, orderID int64, sessionID string) error
	GetOrderByID(ctx context.Context, id int64) (domains.Order, error)
	MarkOrderPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error)
}

type CheckoutService struct {
	plans   PlanProvider
	orders  OrderProvider
	gateway PaymentGateway
	baseURL string
	now     func() time.Time
}

func NewCheckoutService(plans PlanProvider, orders OrderProvider, gateway PaymentGateway, baseURL string) *CheckoutService {
	return &CheckoutService{
		plans:   plans,
		orders:  orders,
		gateway: gateway,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Plans lists the active catalog ordered by price.
func (s *CheckoutService) Plans(ctx context.Context) ([]domains.Plan, error) {
	return s.plans.ListActivePlans(ctx)
}

// Plan resolves an active plan by code.
func (s *CheckoutService) Plan(ctx context.Context, code string) (domains.Plan, error) {
	if code == "" {
		return domains.Plan{}, ErrPlanNotFound
	}
	plan, err := s.plans.GetPlanByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.Plan{}, ErrPlanNotFound
	}
	if err != nil {
		return domains.Plan{}, fmt.Errorf("get plan %q: %w", code, err)
	}
	return plan, nil
}

// StartCheckout freezes the draft into a pending order and a hosted payment
// session, and returns the URL the buyer is redirected to.
func (s *CheckoutService) StartCheckout(ctx context.Context, draft domains.Draft, userID int64) (string, error) {
	plan, err := s.Plan(ctx, draft.PlanCode)
	if err != nil {
		return "", err
	}

	priceRef, err := s.resolvePrice(ctx, plan)
	if err != nil {
		return "", err
	}

	order, err := s.orders.CreateOrder(ctx, userID, plan.ID)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, domains.CheckoutSessionRequest{
		PriceRef:          priceRef,
		ClientReferenceID: strconv.FormatInt(order.ID, 10),
		Metadata:          draft.Metadata(userID, plan.Code, s.now()),
		SuccessURL:        s.baseURL + successPath,
		CancelURL:         s.baseURL + cancelPath + "?plan=" + url.QueryEscape(plan.Code),
	})
	if err != nil {
		slog.Error("checkout session failed", "order_id", order.ID, "plan", plan.Code, "err", err)
		return "", fmt.Errorf("%w: %w", ErrPaymentStart, err)
	}

	if err := s.orders.SetOrderSession(ctx, order.ID, session.ID); err != nil {
		return "", fmt.Errorf("store order session: %w", err)
	}

	slog.Info("checkout started", "order_id", order.ID, "user_id", userID, "plan", plan.Code, "session_id", session.ID)
	return session.URL, nil
}

// resolvePrice returns a chargeable price reference for the plan, creating and
// memoizing one when the plan still points at a bare product. Two first
// checkouts racing here may both create a price; the last write wins.
func (s *CheckoutService) resolvePrice(ctx context.Context, plan domains.Plan) (string, error) {
	ref := plan.PriceRef
	if plan.Unpriced() {
		priceID, err := s.gateway.CreatePrice(ctx, ref, plan.PriceMXN*100, currencyMXN)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrPriceResolution, err)
		}
		if err := s.plans.UpdatePlanPriceRef(ctx, plan.ID, priceID); err != nil {
			slog.Warn("price memoization failed", "plan", plan.Code, "price", priceID, "err", err)
		}
		ref = priceID
	}
	if !(domains.Plan{PriceRef: ref}).Chargeable() {
		return "", fmt.Errorf("%w: plan %s has price reference %q", ErrPriceResolution, plan.Code, ref)
	}
	return ref, nil
}
