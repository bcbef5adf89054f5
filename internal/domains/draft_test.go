package domains

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestDraftApply(t *testing.T) {
	d := Draft{Title: "Boda", Venue: "Salón"}
	yes := true

	got := d.Apply(DraftPatch{Venue: str(""), ShowMap: &yes, Date: str("2026-05-01"), DateISO: str("2026-05-01T06:00:00Z")})

	assert.Equal(t, "Boda", got.Title)
	assert.Empty(t, got.Venue)
	assert.True(t, got.ShowMap)
	assert.Equal(t, "2026-05-01T06:00:00Z", got.DateISO)
	assert.Equal(t, "Salón", d.Venue)
}

func TestDraftApply_DoesNotDeriveISO(t *testing.T) {
	d := Draft{Date: "2026-05-01", DateISO: "2026-05-01T00:00:00Z"}

	got := d.Apply(DraftPatch{Date: str("2026-06-01")})

	assert.Equal(t, "2026-05-01T00:00:00Z", got.DateISO)
}

func TestEventISO(t *testing.T) {
	cdmx := time.FixedZone("CST", -6*60*60)

	iso, ok := EventISO("2026-05-01", "18:30", cdmx)
	require.True(t, ok)
	assert.Equal(t, "2026-05-02T00:30:00Z", iso)

	iso, ok = EventISO("2026-05-01", "18:30", nil)
	require.True(t, ok)
	assert.Equal(t, "2026-05-01T18:30:00Z", iso)

	iso, ok = EventISO("2026-05-01", "", cdmx)
	require.True(t, ok)
	assert.Equal(t, "2026-05-01T06:00:00Z", iso)

	_, ok = EventISO("2026-13-01", "", nil)
	assert.False(t, ok)
	_, ok = EventISO("2026-05-01", "25:00", nil)
	assert.False(t, ok)
}

func TestDraftPatch_DateISONotDecoded(t *testing.T) {
	var p DraftPatch
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-05-01","date_iso":"1999-01-01T00:00:00Z"}`), &p))

	assert.Nil(t, p.DateISO)
	require.NotNil(t, p.Date)
}

func TestDraftMetadata_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	meta := Draft{}.Metadata(42, "basic", now)

	assert.Len(t, meta, 14)
	assert.Equal(t, "42", meta[MetaUserID])
	assert.Equal(t, "basic", meta[MetaPlanCode])
	assert.Equal(t, DefaultTemplateKey, meta[MetaTemplateKey])
	assert.Equal(t, DefaultTitle, meta[MetaTitle])
	assert.Equal(t, "2026-01-02T03:04:05Z", meta[MetaDateISO])
	assert.Equal(t, DefaultPlace, meta[MetaVenue])
	assert.Equal(t, DefaultPlace, meta[MetaAddress])
	assert.Equal(t, DefaultPalette, meta[MetaPalette])
	assert.Equal(t, "false", meta[MetaShowMap])
	assert.Equal(t, "false", meta[MetaMusicAutoplay])
	assert.Empty(t, meta[MetaRegistry])
}

func TestPlanPriceRef(t *testing.T) {
	assert.True(t, Plan{PriceRef: "prod_x"}.Unpriced())
	assert.False(t, Plan{PriceRef: "prod_x"}.Chargeable())
	assert.True(t, Plan{PriceRef: "price_x"}.Chargeable())
	assert.False(t, Plan{}.Chargeable())
}
