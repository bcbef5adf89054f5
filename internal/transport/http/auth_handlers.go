package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"invitame/internal/domains"
	"invitame/internal/httpx"
	"invitame/internal/service"
	"invitame/internal/storage"
)

const refreshCookie = "refreshToken"

type AuthHandlers struct {
	service AuthServices
}

type AuthServices interface {
	Register(ctx context.Context, acc domains.Account) (int64, error)
	Login(ctx context.Context, email string, password string) (string, string, error)
	Refresh(ctx context.Context, token string) (string, string, error)
	Me(ctx context.Context, token string) (domains.Account, error)
}

func NewAuthHandlers(service AuthServices) *AuthHandlers {
	return &AuthHandlers{
		service: service,
	}
}

func (h AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	acc, err := httpx.ReadBody[domains.Account](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}

	id, err := h.service.Register(r.Context(), acc)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUserExist):
			httpx.Error(w, http.StatusConflict, "El correo ya está registrado")
		case errors.Is(err, service.ErrCredentialsMissing):
			httpx.Error(w, http.StatusBadRequest, "Correo y contraseña son obligatorios")
		default:
			httpx.Error(w, http.StatusInternalServerError, "Error del servidor")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	loginData, err := httpx.ReadBody[LoginData](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	accessToken, refreshToken, err := h.service.Login(r.Context(), loginData.Email, loginData.Password)
	if err != nil {
		if errors.Is(err, service.PasswordIncorrect) {
			httpx.Error(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Error del servidor")
		return
	}

	h.writeTokens(w, accessToken, refreshToken)
}

func (h AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		if body, err := httpx.ReadBody[TokenRefreshRequest](r); err == nil {
			token = body.RefreshToken
		}
	}
	if token == "" {
		httpx.Error(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	accessToken, refreshToken, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.TokenIncorrect) {
			httpx.Error(w, http.StatusUnauthorized, "Token is incorrect")
			return
		}
		if errors.Is(err, storage.ErrUserNotFound) {
			httpx.Error(w, http.StatusUnauthorized, "User not found")
			return
		}
		slog.Error("refresh failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	h.writeTokens(w, accessToken, refreshToken)
}

func (h AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.service.Me(r.Context(), token)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h AuthHandlers) writeTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, TokenPair{AccessToken: accessToken, RefreshToken: refreshToken})
}
