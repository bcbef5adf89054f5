package httptransport

import (
	"net/http"

	"github.com/gorilla/mux"

	"invitame/internal/config"
	"invitame/internal/httpx"
)

type DraftServices interface {
	WizardServices
	DraftReader
}

// Services are the use cases the HTTP layer dispatches to.
type Services struct {
	Auth      AuthServices
	Templates TemplateServices
	Drafts    DraftServices
	Checkout  CheckoutServices
	Confirm   ConfirmationServices
	Panel     PanelServices
}

func Router(svc Services, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	authHandler := NewAuthHandlers(svc.Auth)
	templateHandler := NewTemplateHandlers(svc.Templates)
	wizardHandler := NewWizardHandlers(svc.Drafts)
	checkoutHandler := NewCheckoutHandlers(svc.Checkout, svc.Confirm, svc.Drafts)
	panelHandler := NewPanelHandlers(svc.Panel, cfg.App.Location())

	api := router.PathPrefix("/api").Subrouter()

	// The webhook sits outside the session middleware: the gateway has no cookie.
	api.HandleFunc("/webhooks/stripe", checkoutHandler.Webhook).Methods(http.MethodPost)
	api.HandleFunc("/plans", checkoutHandler.Plans).Methods(http.MethodGet)
	api.HandleFunc("/templates", templateHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/u/{slug}", panelHandler.Public).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	session := httpx.Session(cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.Secure)

	wizard := api.PathPrefix("/wizard").Subrouter()
	wizard.Use(session)
	wizard.HandleFunc("/start", wizardHandler.Start).Methods(http.MethodPost)
	wizard.HandleFunc("/step/{n}", wizardHandler.View).Methods(http.MethodGet)
	wizard.HandleFunc("/step/{n}", wizardHandler.Save).Methods(http.MethodPost)
	wizard.HandleFunc("/preview", wizardHandler.Preview).Methods(http.MethodGet)

	checkout := api.PathPrefix("/checkout").Subrouter()
	checkout.Use(session)
	checkout.HandleFunc("/success", checkoutHandler.Success).Methods(http.MethodGet)
	checkout.Handle("/start", httpx.Protected(cfg.JWT.Secret)(http.HandlerFunc(checkoutHandler.Start))).Methods(http.MethodPost)

	panel := api.PathPrefix("/panel").Subrouter()
	panel.Use(httpx.Protected(cfg.JWT.Secret))
	panel.HandleFunc("/invitations", panelHandler.List).Methods(http.MethodGet)
	panel.HandleFunc("/invitations/{id}", panelHandler.Get).Methods(http.MethodGet)
	panel.HandleFunc("/invitations/{id}/templates", panelHandler.Templates).Methods(http.MethodGet)
	panel.HandleFunc("/invitations/{id}/date", panelHandler.SetDate).Methods(http.MethodPut)
	panel.HandleFunc("/invitations/{id}/slug", panelHandler.SetSlug).Methods(http.MethodPut)
	panel.HandleFunc("/invitations/{id}/theme", panelHandler.SetTheme).Methods(http.MethodPut)
	panel.HandleFunc("/invitations/{id}/sections", panelHandler.SetSections).Methods(http.MethodPut)
	panel.HandleFunc("/invitations/{id}/template", panelHandler.SetTemplate).Methods(http.MethodPut)
	panel.HandleFunc("/invitations/{id}/publish", panelHandler.Publish).Methods(http.MethodPost)

	return router
}
