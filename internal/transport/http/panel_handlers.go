package httptransport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"invitame/internal/domains"
	"invitame/internal/httpx"
	"invitame/internal/service"
	"invitame/internal/theme"
)

type PanelServices interface {
	List(ctx context.Context, userID int64) ([]domains.InvitationSummary, error)
	Get(ctx context.Context, id, userID int64) (domains.Invitation, error)
	Templates(ctx context.Context, id, userID int64) ([]domains.Template, error)
	SetDate(ctx context.Context, id, userID int64, eventAt time.Time) error
	SetSlug(ctx context.Context, id, userID int64, slug string) error
	SetTheme(ctx context.Context, id, userID int64, partial theme.Theme) (theme.Theme, error)
	SetSectionOrder(ctx context.Context, id, userID int64, order []string) error
	SetTemplate(ctx context.Context, id, userID int64, key string) error
	Publish(ctx context.Context, id, userID int64) error
	PublicBySlug(ctx context.Context, slug string) (service.PublicPage, error)
}

type PanelHandlers struct {
	service PanelServices
	loc     *time.Location
}

func NewPanelHandlers(service PanelServices, loc *time.Location) *PanelHandlers {
	return &PanelHandlers{service: service, loc: loc}
}

// target resolves the caller and the {id} path variable, writing the error
// response itself when either is missing.
func target(w http.ResponseWriter, r *http.Request) (id, uid int64, ok bool) {
	uid, ok = httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return 0, 0, false
	}
	id, ok = httpx.GetId(w, r)
	return id, uid, ok
}

func (h *PanelHandlers) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	out, err := h.service.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *PanelHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	inv, err := h.service.Get(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *PanelHandlers) Templates(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	out, err := h.service.Templates(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// parseEventDate accepts either an RFC 3339 date_iso or a date plus time pair
// read as wall clock in loc.
func parseEventDate(req DateRequest, loc *time.Location) (time.Time, bool) {
	if s := strings.TrimSpace(req.DateISO); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		return t, err == nil
	}
	iso, ok := domains.EventISO(req.Date, req.Time, loc)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, iso)
	return t, err == nil
}

func (h *PanelHandlers) SetDate(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[DateRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	eventAt, ok := parseEventDate(req, h.loc)
	if !ok {
		writeError(w, service.ErrDateInvalid)
		return
	}
	if err := h.service.SetDate(r.Context(), id, uid, eventAt); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelHandlers) SetSlug(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[SlugRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.service.SetSlug(r.Context(), id, uid, req.Slug); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelHandlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	raw, err := httpx.ReadRaw(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Cuerpo inválido")
		return
	}
	// an unparsable override merges as an empty one
	merged, err := h.service.SetTheme(r.Context(), id, uid, theme.Parse(string(raw)))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, merged)
}

func (h *PanelHandlers) SetSections(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[SectionsRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.service.SetSectionOrder(r.Context(), id, uid, req.Order); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelHandlers) SetTemplate(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	req, err := httpx.ReadBody[TemplateKeyRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if err := h.service.SetTemplate(r.Context(), id, uid, req.TemplateKey); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelHandlers) Publish(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := target(w, r)
	if !ok {
		return
	}
	if err := h.service.Publish(r.Context(), id, uid); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PanelHandlers) Public(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.PublicBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}
