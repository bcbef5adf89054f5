package domains

import (
	"strconv"
	"strings"
	"time"
)

// Metadata keys exchanged with the payment gateway. The map crosses into the
// gateway's wire format, so it stays a plain map[string]string.
const (
	MetaUserID        = "user_id"
	MetaPlanCode      = "plan_code"
	MetaTemplateKey   = "template_key"
	MetaTitle         = "title"
	MetaDateISO       = "date_iso"
	MetaVenue         = "venue"
	MetaAddress       = "address"
	MetaShowMap       = "show_map"
	MetaDressCode     = "dress_code"
	MetaMessage       = "message"
	MetaPalette       = "palette"
	MetaRegistry      = "registry"
	MetaMusicURL      = "music_url"
	MetaMusicAutoplay = "music_autoplay"
)

const (
	DefaultTemplateKey = "default"
	DefaultTitle       = "Mi Evento"
	DefaultPlace       = "Por definir"
	DefaultPalette     = "{}"
)

// Draft is the per-session wizard state.
type Draft struct {
	PlanCode      string `json:"plan_code,omitempty"`
	TemplateKey   string `json:"template_key,omitempty"`
	Title         string `json:"title,omitempty"`
	Festejado     string `json:"festejado,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	DateISO       string `json:"date_iso,omitempty"`
	Venue         string `json:"venue,omitempty"`
	Address       string `json:"address,omitempty"`
	ShowMap       bool   `json:"show_map,omitempty"`
	DressCode     string `json:"dress_code,omitempty"`
	Message       string `json:"message,omitempty"`
	Palette       string `json:"palette,omitempty"`
	Registry      string `json:"registry,omitempty"`
	MusicURL      string `json:"music_url,omitempty"`
	MusicAutoplay bool   `json:"music_autoplay,omitempty"`
}

// DraftPatch is one wizard submission. Nil fields leave the draft untouched.
type DraftPatch struct {
	PlanCode      *string `json:"plan_code,omitempty"`
	TemplateKey   *string `json:"template_key,omitempty"`
	Title         *string `json:"title,omitempty"`
	Festejado     *string `json:"festejado,omitempty"`
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	Venue         *string `json:"venue,omitempty"`
	Address       *string `json:"address,omitempty"`
	ShowMap       *bool   `json:"show_map,omitempty"`
	DressCode     *string `json:"dress_code,omitempty"`
	Message       *string `json:"message,omitempty"`
	Palette       *string `json:"palette,omitempty"`
	Registry      *string `json:"registry,omitempty"`
	MusicURL      *string `json:"music_url,omitempty"`
	MusicAutoplay *bool   `json:"music_autoplay,omitempty"`

	// DateISO is derived server side from date and time; clients cannot set it.
	DateISO *string `json:"-"`
}

// Apply returns the draft with the patch merged in.
func (d Draft) Apply(p DraftPatch) Draft {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.PlanCode, p.PlanCode)
	set(&d.TemplateKey, p.TemplateKey)
	set(&d.Title, p.Title)
	set(&d.Festejado, p.Festejado)
	set(&d.Date, p.Date)
	set(&d.Time, p.Time)
	set(&d.Venue, p.Venue)
	set(&d.Address, p.Address)
	set(&d.DressCode, p.DressCode)
	set(&d.Message, p.Message)
	set(&d.Palette, p.Palette)
	set(&d.Registry, p.Registry)
	set(&d.MusicURL, p.MusicURL)
	set(&d.DateISO, p.DateISO)
	if p.ShowMap != nil {
		d.ShowMap = *p.ShowMap
	}
	if p.MusicAutoplay != nil {
		d.MusicAutoplay = *p.MusicAutoplay
	}
	return d
}

// EventISO reads a wizard date (YYYY-MM-DD) and time (HH:MM) as wall clock in
// loc and returns the instant in RFC 3339, UTC. A nil loc means UTC.
func EventISO(date, clock string, loc *time.Location) (string, bool) {
	if clock == "" {
		clock = "00:00"
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339), true
}

// Metadata snapshots the draft into the gateway metadata map, filling the same
// defaults the invitation falls back to.
func (d Draft) Metadata(userID int64, planCode string, now time.Time) map[string]string {
	dateISO := d.DateISO
	if dateISO == "" {
		dateISO = now.UTC().Format(time.RFC3339)
	}
	return map[string]string{
		MetaUserID:        strconv.FormatInt(userID, 10),
		MetaPlanCode:      planCode,
		MetaTemplateKey:   orDefault(d.TemplateKey, DefaultTemplateKey),
		MetaTitle:         orDefault(d.Title, DefaultTitle),
		MetaDateISO:       dateISO,
		MetaVenue:         orDefault(d.Venue, DefaultPlace),
		MetaAddress:       orDefault(d.Address, DefaultPlace),
		MetaShowMap:       strconv.FormatBool(d.ShowMap),
		MetaDressCode:     d.DressCode,
		MetaMessage:       d.Message,
		MetaPalette:       orDefault(d.Palette, DefaultPalette),
		MetaRegistry:      d.Registry,
		MetaMusicURL:      d.MusicURL,
		MetaMusicAutoplay: strconv.FormatBool(d.MusicAutoplay),
	}
}

func orDefault(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}
