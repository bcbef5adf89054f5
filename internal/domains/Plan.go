package domains

import "strings"

const (
	TierGeneral = "general"
	TierAll     = "all"
)

type Plan struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	PriceMXN      int64  `json:"price_mxn"`
	AllowRegistry bool   `json:"allow_registry"`
	AllowMusic    bool   `json:"allow_music"`
	TemplateScope string `json:"template_scope"`
	PriceRef      string `json:"-"`
	Active        bool   `json:"active"`
}

// Unpriced reports whether the stored price reference still points at a bare
// product that has to be priced before it can be charged.
func (p Plan) Unpriced() bool {
	return strings.HasPrefix(p.PriceRef, "prod_")
}

// Chargeable reports whether the stored price reference can go on a line item.
func (p Plan) Chargeable() bool {
	return strings.HasPrefix(p.PriceRef, "price_")
}
