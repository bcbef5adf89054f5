package domains

import "time"

const (
	OrderPending = "pending"
	OrderPaid    = "paid"
)

type Order struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	PlanID    int64      `json:"plan_id"`
	Status    string     `json:"status"`
	SessionID *string    `json:"session_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CheckoutSessionRequest is what the core asks the payment gateway to host.
type CheckoutSessionRequest struct {
	PriceRef          string
	ClientReferenceID string
	Metadata          map[string]string
	SuccessURL        string
	CancelURL         string
}

// CheckoutSession is the gateway's view of a hosted payment session.
type CheckoutSession struct {
	ID                string
	URL               string
	ClientReferenceID string
	Paid              bool
	Metadata          map[string]string
}

const EventCheckoutCompleted = "checkout.session.completed"

// GatewayEvent is a verified push notification from the payment gateway.
type GatewayEvent struct {
	ID      string
	Type    string
	Session CheckoutSession
}
