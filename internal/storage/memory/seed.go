package memory

import (
	"encoding/json"

	"invitame/internal/domains"
)

// Seed loads the same catalog rows the initial migration inserts.
func Seed(s *Store) {
	s.AddPlan(domains.Plan{Code: "basic", Name: "Básico", PriceMXN: 499, TemplateScope: domains.TierGeneral, PriceRef: "prod_basic", Active: true})
	s.AddPlan(domains.Plan{Code: "pro", Name: "Pro", PriceMXN: 899, AllowRegistry: true, TemplateScope: domains.TierAll, PriceRef: "prod_pro", Active: true})
	s.AddPlan(domains.Plan{Code: "premium", Name: "Premium", PriceMXN: 1499, AllowRegistry: true, AllowMusic: true, TemplateScope: "premium", PriceRef: "prod_premium", Active: true})

	s.AddTemplate(domains.Template{
		Key: domains.DefaultTemplateKey, Name: "Clásica", Tier: domains.TierGeneral, Category: "general", SortOrder: 1, Active: true,
	})
	s.AddTemplate(domains.Template{
		Key: "boda-jardin", Name: "Jardín", Tier: domains.TierGeneral, Category: "boda", SortOrder: 1, Active: true,
		BaseTheme: json.RawMessage(`{"colors":{"bg":"#f4f1ea","text":"#2f3a2f","accent":"#6b8f71"},"fonts":{"heading":"Playfair Display"}}`),
	})
	s.AddTemplate(domains.Template{
		Key: "xv-noche", Name: "Noche de gala", Tier: domains.TierAll, Category: "xv", SortOrder: 1, Active: true,
		BaseTheme: json.RawMessage(`{"colors":{"bg":"#120d1f","accent":"#c9a227"},"hero":{"mode":"image"}}`),
	})
}
