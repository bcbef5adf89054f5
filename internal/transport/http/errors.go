package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"invitame/internal/httpx"
	"invitame/internal/service"
	"invitame/internal/wizard"
)

// writeError maps service errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrPlanNotFound):
		httpx.Error(w, http.StatusNotFound, "Plan no encontrado")
	case errors.Is(err, service.ErrNoDraft):
		httpx.Error(w, http.StatusConflict, "Primero elige un plan")
	case errors.Is(err, service.ErrPriceResolution), errors.Is(err, service.ErrPaymentStart):
		slog.Error("checkout start failed", "err", err)
		httpx.Error(w, http.StatusBadGateway, "Error iniciando pago")
	case errors.Is(err, service.ErrSignatureInvalid):
		httpx.Error(w, http.StatusBadRequest, "Firma inválida")
	case errors.Is(err, service.ErrInvitationNotFound):
		httpx.Error(w, http.StatusNotFound, "Invitación no encontrada")
	case errors.Is(err, service.ErrTemplateNotFound):
		httpx.Error(w, http.StatusNotFound, "Plantilla no encontrada")
	case errors.Is(err, service.ErrAlreadyLocked):
		httpx.Error(w, http.StatusConflict, "El campo ya está bloqueado")
	case errors.Is(err, service.ErrSlugTaken):
		httpx.Error(w, http.StatusConflict, "Ese slug ya existe")
	case errors.Is(err, service.ErrSlugInvalid):
		httpx.Error(w, http.StatusBadRequest, "Slug inválido")
	case errors.Is(err, service.ErrSectionOrderEmpty):
		httpx.Error(w, http.StatusBadRequest, "Orden inválido")
	case errors.Is(err, service.ErrDateInvalid):
		httpx.Error(w, http.StatusBadRequest, "Fecha inválida")
	default:
		slog.Error("request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Error del servidor")
	}
}
