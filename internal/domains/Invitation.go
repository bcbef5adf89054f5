package domains

import (
	"time"

	"invitame/internal/theme"
)

const (
	InvitationDraft    = "draft"
	InvitationActive   = "active"
	InvitationArchived = "archived"
)

const DefaultArchiveDays = 30

type Invitation struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	OrderID         int64       `json:"order_id"`
	TemplateKey     string      `json:"template_key"`
	Slug            string      `json:"slug"`
	Title           string      `json:"title"`
	EventAt         time.Time   `json:"date_iso"`
	Venue           string      `json:"venue"`
	Address         string      `json:"address"`
	Theme           theme.Theme `json:"theme"`
	SectionOrder    []string    `json:"section_order"`
	Status          string      `json:"status"`
	DateLocked      bool        `json:"date_locked"`
	SlugLocked      bool        `json:"slug_locked"`
	AutoArchiveDays int         `json:"auto_archive_days"`
	PublishedAt     *time.Time  `json:"published_at,omitempty"`
	ArchivedAt      *time.Time  `json:"archived_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type InvitationToSave struct {
	UserID       int64
	OrderID      int64
	TemplateKey  string
	Slug         string
	Title        string
	EventAt      time.Time
	Venue        string
	Address      string
	Theme        theme.Theme
	SectionOrder []string
	Status       string
}

// InvitationSummary is the panel listing row.
type InvitationSummary struct {
	Invitation
	PlanCode string `json:"plan_code"`
	PlanName string `json:"plan_name"`
}
