package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"invitame/internal/domains"
	"invitame/internal/httpx"
	"invitame/internal/service"
)

type WizardServices interface {
	Start(ctx context.Context, sessionID, planCode string) (service.WizardView, error)
	View(ctx context.Context, sessionID string, n int) (service.WizardView, error)
	Save(ctx context.Context, sessionID string, n int, patch domains.DraftPatch) (service.WizardView, error)
	Preview(ctx context.Context, sessionID string) (service.Preview, error)
}

type WizardHandlers struct {
	service WizardServices
}

func NewWizardHandlers(service WizardServices) *WizardHandlers {
	return &WizardHandlers{service: service}
}

func (h *WizardHandlers) Start(w http.ResponseWriter, r *http.Request) {
	sid, ok := httpx.SessionFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "Sesión requerida")
		return
	}
	view, err := h.service.Start(r.Context(), sid, r.URL.Query().Get("plan"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// stepNumber reads {n}; anything unparsable becomes 1 and the service clamps
// the rest.
func stepNumber(r *http.Request) int {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		return 1
	}
	return n
}

func (h *WizardHandlers) View(w http.ResponseWriter, r *http.Request) {
	sid, _ := httpx.SessionFromContext(r.Context())
	view, err := h.service.View(r.Context(), sid, stepNumber(r))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *WizardHandlers) Save(w http.ResponseWriter, r *http.Request) {
	sid, _ := httpx.SessionFromContext(r.Context())
	patch, err := httpx.ReadBody[domains.DraftPatch](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	view, err := h.service.Save(r.Context(), sid, stepNumber(r), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *WizardHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	sid, _ := httpx.SessionFromContext(r.Context())
	preview, err := h.service.Preview(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, preview)
}
