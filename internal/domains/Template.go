package domains

import "encoding/json"

type Template struct {
	ID         int64           `json:"id"`
	Key        string          `json:"key"`
	Name       string          `json:"name"`
	Tier       string          `json:"tier"`
	Category   string          `json:"category"`
	SortOrder  int             `json:"sort_order"`
	PreviewImg string          `json:"preview_img,omitempty"`
	BaseTheme  json.RawMessage `json:"base_theme,omitempty"`
	Active     bool            `json:"active"`
}
