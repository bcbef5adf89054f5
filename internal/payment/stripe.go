// Package payment adapts Stripe hosted checkout to the service's gateway port.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"invitame/internal/domains"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeGateway struct {
	sc            *client.API
	webhookSecret string
}

// NewStripeGateway builds a gateway. backends may be nil to talk to the live API.
func NewStripeGateway(secretKey, webhookSecret string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{
		sc:            client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreatePrice(ctx context.Context, productRef string, unitAmount int64, currency string) (string, error) {
	params := &stripe.PriceParams{
		Currency:   stripe.String(currency),
		UnitAmount: stripe.Int64(unitAmount),
		Product:    stripe.String(productRef),
	}
	params.Context = ctx
	price, err := g.sc.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create price: %w", err)
	}
	return price.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domains.CheckoutSessionRequest) (domains.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceRef), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(req.ClientReferenceID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	cs, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return domains.CheckoutSession{}, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return toSession(cs), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (domains.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	cs, err := g.sc.CheckoutSessions.Get(id, params)
	if err != nil {
		return domains.CheckoutSession{}, fmt.Errorf("stripe get checkout session: %w", err)
	}
	return toSession(cs), nil
}

// ParseWebhook verifies the Stripe-Signature header against the endpoint
// secret before decoding anything from the payload.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (domains.GatewayEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return domains.GatewayEvent{}, err
	}
	out := domains.GatewayEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != domains.EventCheckoutCompleted || event.Data == nil {
		return out, nil
	}
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return domains.GatewayEvent{}, fmt.Errorf("decode checkout session: %w", err)
	}
	out.Session = toSession(&cs)
	return out, nil
}

func toSession(cs *stripe.CheckoutSession) domains.CheckoutSession {
	return domains.CheckoutSession{
		ID:                cs.ID,
		URL:               cs.URL,
		ClientReferenceID: cs.ClientReferenceID,
		Paid:              cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:          cs.Metadata,
	}
}
