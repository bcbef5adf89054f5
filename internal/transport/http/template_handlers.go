package httptransport

import (
	"context"
	"net/http"

	"invitame/internal/domains"
	"invitame/internal/httpx"
)

type TemplateServices interface {
	ListFor(ctx context.Context, tier string) ([]domains.Template, error)
}

type TemplateHandlers struct {
	service TemplateServices
}

func NewTemplateHandlers(service TemplateServices) *TemplateHandlers {
	return &TemplateHandlers{
		service: service,
	}
}

// List returns the catalog visible to ?tier= (general when omitted).
func (h *TemplateHandlers) List(w http.ResponseWriter, r *http.Request) {
	tier := r.URL.Query().Get("tier")
	if tier == "" {
		tier = domains.TierGeneral
	}
	templates, err := h.service.ListFor(r.Context(), tier)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, templates)
}
