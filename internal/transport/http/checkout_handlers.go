package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"invitame/internal/domains"
	"invitame/internal/httpx"
	"invitame/internal/service"
)

const maxWebhookBytes = 64 << 10

type CheckoutServices interface {
	Plans(ctx context.Context) ([]domains.Plan, error)
	StartCheckout(ctx context.Context, draft domains.Draft, userID int64) (string, error)
}

type ConfirmationServices interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	HandleReturn(ctx context.Context, sessionID string) (service.ReturnResult, error)
}

type DraftReader interface {
	Draft(ctx context.Context, sessionID string) (domains.Draft, error)
	Clear(ctx context.Context, sessionID string) error
}

type CheckoutHandlers struct {
	checkout CheckoutServices
	confirm  ConfirmationServices
	drafts   DraftReader
}

func NewCheckoutHandlers(checkout CheckoutServices, confirm ConfirmationServices, drafts DraftReader) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout, confirm: confirm, drafts: drafts}
}

func (h *CheckoutHandlers) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.checkout.Plans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, plans)
}

// Start snapshots the session draft into a paid checkout and returns the
// hosted payment URL.
func (h *CheckoutHandlers) Start(w http.ResponseWriter, r *http.Request) {
	uid, ok := httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sid, _ := httpx.SessionFromContext(r.Context())
	draft, err := h.drafts.Draft(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}
	if plan := r.URL.Query().Get("plan"); draft.PlanCode == "" && plan != "" {
		draft.PlanCode = plan
	}

	url, err := h.checkout.StartCheckout(r.Context(), draft, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}

// Success is the synchronous return path. A paid session clears the wizard
// draft of the browser that paid.
func (h *CheckoutHandlers) Success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		httpx.Error(w, http.StatusBadRequest, "session_id requerido")
		return
	}
	result, err := h.confirm.HandleReturn(r.Context(), sessionID)
	if err != nil {
		slog.Error("checkout return failed", "session_id", sessionID, "err", err)
		httpx.Error(w, http.StatusBadGateway, "No se pudo verificar el pago")
		return
	}
	if result.Paid {
		if sid, ok := httpx.SessionFromContext(r.Context()); ok {
			if err := h.drafts.Clear(r.Context(), sid); err != nil {
				slog.Warn("draft clear failed", "err", err)
			}
		}
	}
	httpx.JSON(w, http.StatusOK, result)
}

// Webhook reads the raw body untouched so the signature can be verified over
// the exact bytes the gateway signed.
func (h *CheckoutHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Cuerpo inválido")
		return
	}
	if err := h.confirm.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		if errors.Is(err, service.ErrSignatureInvalid) {
			writeError(w, err)
			return
		}
		slog.Error("webhook failed", "err", err)
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
