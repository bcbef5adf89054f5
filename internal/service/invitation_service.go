package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
	"invitame/internal/theme"
)

const generatedSlugPrefix = "evento-"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type InvitationProvider interface {
	CreateInvitation(ctx context.Context, in domains.InvitationToSave) (domains.Invitation, error)
	GetInvitation(ctx context.Context, id, userID int64) (domains.Invitation, error)
	GetInvitationBySlug(ctx context.Context, slug string) (domains.Invitation, error)
	GetInvitationByOrder(ctx context.Context, orderID int64) (domains.Invitation, error)
	GetInvitationPlan(ctx context.Context, id, userID int64) (domains.Plan, error)
	ListInvitationsByUser(ctx context.Context, userID int64) ([]domains.InvitationSummary, error)
	LockDate(ctx context.Context, id, userID int64, eventAt time.Time) error
	UpdateSlug(ctx context.Context, id, userID int64, slug string) error
	UpdateTheme(ctx context.Context, id, userID int64, t theme.Theme) error
	UpdateSectionOrder(ctx context.Context, id, userID int64, order []string) error
	UpdateTemplateKey(ctx context.Context, id, userID int64, key string) error
	PublishInvitation(ctx context.Context, id, userID int64, at time.Time) error
}

// PublicPage is the data a guest-facing page is rendered from.
type PublicPage struct {
	Invitation   domains.Invitation `json:"invitation"`
	Theme        theme.Theme        `json:"theme"`
	SectionOrder []string           `json:"section_order"`
}

// InvitationService owns post-purchase edits. Date and slug are one-time
// locks; theme edits merge over the stored theme.
type InvitationService struct {
	invitations InvitationProvider
	templates   *TemplateService
	now         func() time.Time
}

func NewInvitationService(invitations InvitationProvider, templates *TemplateService) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		templates:   templates,
		now:         time.Now,
	}
}

func mapInvitationErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrInvitationNotFound
	case errors.Is(err, storage.ErrLocked):
		return ErrAlreadyLocked
	case errors.Is(err, storage.ErrSlugConflict):
		return ErrSlugTaken
	}
	return err
}

func (s *InvitationService) List(ctx context.Context, userID int64) ([]domains.InvitationSummary, error) {
	out, err := s.invitations.ListInvitationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return out, nil
}

func (s *InvitationService) Get(ctx context.Context, id, userID int64) (domains.Invitation, error) {
	inv, err := s.invitations.GetInvitation(ctx, id, userID)
	if err != nil {
		return domains.Invitation{}, mapInvitationErr(err)
	}
	return inv, nil
}

// Templates lists the templates the invitation's plan tier may switch to.
func (s *InvitationService) Templates(ctx context.Context, id, userID int64) ([]domains.Template, error) {
	plan, err := s.invitations.GetInvitationPlan(ctx, id, userID)
	if err != nil {
		return nil, mapInvitationErr(err)
	}
	return s.templates.ListFor(ctx, tierOf(plan))
}

// SetDate confirms the event date. It fails with ErrAlreadyLocked once the
// date was confirmed, and otherwise locks both the date and the slug.
func (s *InvitationService) SetDate(ctx context.Context, id, userID int64, eventAt time.Time) error {
	if eventAt.IsZero() {
		return ErrDateInvalid
	}
	if err := s.invitations.LockDate(ctx, id, userID, eventAt.UTC()); err != nil {
		return mapInvitationErr(err)
	}
	slog.Info("invitation date locked", "invitation_id", id, "event_at", eventAt.UTC())
	return nil
}

// SetSlug changes the public slug while it is still unlocked.
func (s *InvitationService) SetSlug(ctx context.Context, id, userID int64, slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	if err := s.invitations.UpdateSlug(ctx, id, userID, slug); err != nil {
		return mapInvitationErr(err)
	}
	return nil
}

// ValidateSlug accepts lowercase letters, digits and single dashes, 3 to 60
// characters. The generated prefix is reserved.
func ValidateSlug(slug string) error {
	if len(slug) < 3 || len(slug) > 60 || !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}
	if strings.HasPrefix(slug, generatedSlugPrefix) {
		return fmt.Errorf("%w: prefix %q is reserved", ErrSlugInvalid, generatedSlugPrefix)
	}
	return nil
}

// SetTheme merges partial over the stored theme and returns the result.
func (s *InvitationService) SetTheme(ctx context.Context, id, userID int64, partial theme.Theme) (theme.Theme, error) {
	inv, err := s.invitations.GetInvitation(ctx, id, userID)
	if err != nil {
		return theme.Theme{}, mapInvitationErr(err)
	}
	merged := theme.Compose(&inv.Theme, partial)
	if err := s.invitations.UpdateTheme(ctx, id, userID, merged); err != nil {
		return theme.Theme{}, mapInvitationErr(err)
	}
	return merged, nil
}

// Publish marks the invitation active and re-stamps published_at.
func (s *InvitationService) Publish(ctx context.Context, id, userID int64) error {
	if err := s.invitations.PublishInvitation(ctx, id, userID, s.now().UTC()); err != nil {
		return mapInvitationErr(err)
	}
	return nil
}

func (s *InvitationService) SetSectionOrder(ctx context.Context, id, userID int64, order []string) error {
	clean := make([]string, 0, len(order))
	for _, name := range order {
		if name = strings.TrimSpace(name); name != "" {
			clean = append(clean, name)
		}
	}
	if len(clean) == 0 {
		return ErrSectionOrderEmpty
	}
	if err := s.invitations.UpdateSectionOrder(ctx, id, userID, clean); err != nil {
		return mapInvitationErr(err)
	}
	return nil
}

func (s *InvitationService) SetTemplate(ctx context.Context, id, userID int64, key string) error {
	if _, err := s.templates.Get(ctx, key); err != nil {
		return err
	}
	if err := s.invitations.UpdateTemplateKey(ctx, id, userID, key); err != nil {
		return mapInvitationErr(err)
	}
	return nil
}

// PublicBySlug returns the page data of an active invitation. The stored
// theme is merged over the default, and layout.section_order overrides the
// stored section order when present.
func (s *InvitationService) PublicBySlug(ctx context.Context, slug string) (PublicPage, error) {
	inv, err := s.invitations.GetInvitationBySlug(ctx, slug)
	if err != nil {
		return PublicPage{}, mapInvitationErr(err)
	}
	if inv.Status != domains.InvitationActive {
		return PublicPage{}, ErrInvitationNotFound
	}
	page := PublicPage{
		Invitation:   inv,
		Theme:        theme.Compose(nil, inv.Theme),
		SectionOrder: inv.SectionOrder,
	}
	if order, ok := page.Theme.Layout.Strings("section_order"); ok && len(order) > 0 {
		page.SectionOrder = order
	}
	return page, nil
}
