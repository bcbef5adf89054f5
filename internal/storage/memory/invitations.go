package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
	"invitame/internal/theme"
)

func cloneInvitation(inv domains.Invitation) domains.Invitation {
	inv.Theme = inv.Theme.Clone()
	inv.SectionOrder = slices.Clone(inv.SectionOrder)
	return inv
}

func (s *Store) CreateInvitation(_ context.Context, in domains.InvitationToSave) (domains.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orderInvit[in.OrderID]; exists {
		return domains.Invitation{}, storage.ErrConflict
	}
	if _, taken := s.slugs[in.Slug]; taken {
		return domains.Invitation{}, storage.ErrSlugConflict
	}
	now := s.now().UTC()
	inv := domains.Invitation{
		ID:              s.nextID(),
		UserID:          in.UserID,
		OrderID:         in.OrderID,
		TemplateKey:     in.TemplateKey,
		Slug:            in.Slug,
		Title:           in.Title,
		EventAt:         in.EventAt,
		Venue:           in.Venue,
		Address:         in.Address,
		Theme:           in.Theme.Clone(),
		SectionOrder:    slices.Clone(in.SectionOrder),
		Status:          in.Status,
		AutoArchiveDays: domains.DefaultArchiveDays,
		CreatedAt:       now,
	}
	if inv.Status == domains.InvitationActive {
		inv.PublishedAt = &now
	}
	s.invitations[inv.ID] = inv
	s.orderInvit[inv.OrderID] = inv.ID
	s.slugs[inv.Slug] = inv.ID
	return cloneInvitation(inv), nil
}

// owned returns the invitation when it exists and belongs to userID. Callers hold the lock.
func (s *Store) owned(id, userID int64) (domains.Invitation, error) {
	inv, ok := s.invitations[id]
	if !ok || inv.UserID != userID {
		return domains.Invitation{}, storage.ErrNotFound
	}
	return inv, nil
}

func (s *Store) GetInvitation(_ context.Context, id, userID int64) (domains.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, err := s.owned(id, userID)
	if err != nil {
		return domains.Invitation{}, err
	}
	return cloneInvitation(inv), nil
}

func (s *Store) GetInvitationBySlug(_ context.Context, slug string) (domains.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slugs[slug]
	if !ok {
		return domains.Invitation{}, storage.ErrNotFound
	}
	return cloneInvitation(s.invitations[id]), nil
}

func (s *Store) GetInvitationByOrder(_ context.Context, orderID int64) (domains.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.orderInvit[orderID]
	if !ok {
		return domains.Invitation{}, storage.ErrNotFound
	}
	return cloneInvitation(s.invitations[id]), nil
}

func (s *Store) ListInvitationsByUser(_ context.Context, userID int64) ([]domains.InvitationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domains.InvitationSummary, 0)
	for _, inv := range s.invitations {
		if inv.UserID != userID || inv.Status != domains.InvitationActive {
			continue
		}
		row := domains.InvitationSummary{Invitation: cloneInvitation(inv)}
		if o, ok := s.orders[inv.OrderID]; ok {
			if p, ok := s.plans[o.PlanID]; ok {
				row.PlanCode = p.Code
				row.PlanName = p.Name
			}
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b domains.InvitationSummary) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (s *Store) GetInvitationPlan(_ context.Context, id, userID int64) (domains.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, err := s.owned(id, userID)
	if err != nil {
		return domains.Plan{}, err
	}
	o, ok := s.orders[inv.OrderID]
	if !ok {
		return domains.Plan{}, storage.ErrNotFound
	}
	p, ok := s.plans[o.PlanID]
	if !ok {
		return domains.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

// LockDate sets the event date and freezes both date and slug.
func (s *Store) LockDate(_ context.Context, id, userID int64, eventAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, err := s.owned(id, userID)
	if err != nil {
		return err
	}
	if inv.DateLocked {
		return storage.ErrLocked
	}
	inv.EventAt = eventAt
	inv.DateLocked = true
	inv.SlugLocked = true
	s.invitations[id] = inv
	return nil
}

func (s *Store) UpdateSlug(_ context.Context, id, userID int64, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, err := s.owned(id, userID)
	if err != nil {
		return err
	}
	if inv.SlugLocked {
		return storage.ErrLocked
	}
	if other, taken := s.slugs[slug]; taken && other != id {
		return storage.ErrSlugConflict
	}
	delete(s.slugs, inv.Slug)
	inv.Slug = slug
	s.slugs[slug] = id
	s.invitations[id] = inv
	return nil
}

func (s *Store) UpdateTheme(_ context.Context, id, userID int64, t theme.Theme) error {
	return s.mutate(id, userID, func(inv *domains.Invitation) { inv.Theme = t.Clone() })
}

func (s *Store) UpdateSectionOrder(_ context.Context, id, userID int64, order []string) error {
	return s.mutate(id, userID, func(inv *domains.Invitation) { inv.SectionOrder = slices.Clone(order) })
}

func (s *Store) UpdateTemplateKey(_ context.Context, id, userID int64, key string) error {
	return s.mutate(id, userID, func(inv *domains.Invitation) { inv.TemplateKey = key })
}

func (s *Store) PublishInvitation(_ context.Context, id, userID int64, at time.Time) error {
	return s.mutate(id, userID, func(inv *domains.Invitation) {
		inv.Status = domains.InvitationActive
		inv.PublishedAt = &at
	})
}

func (s *Store) mutate(id, userID int64, fn func(*domains.Invitation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, err := s.owned(id, userID)
	if err != nil {
		return err
	}
	fn(&inv)
	s.invitations[id] = inv
	return nil
}

// ListArchivable returns ids of active invitations past their archive window,
// ordered by id and starting after afterID.
func (s *Store) ListArchivable(_ context.Context, now time.Time, afterID int64, limit int) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []int64
	for id, inv := range s.invitations {
		if id <= afterID || inv.Status != domains.InvitationActive || inv.EventAt.IsZero() {
			continue
		}
		days := inv.AutoArchiveDays
		if days <= 0 {
			days = domains.DefaultArchiveDays
		}
		if now.After(inv.EventAt.AddDate(0, 0, days)) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) ArchiveInvitations(_ context.Context, ids []int64, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		inv, ok := s.invitations[id]
		if !ok || inv.Status != domains.InvitationActive {
			continue
		}
		inv.Status = domains.InvitationArchived
		inv.ArchivedAt = &at
		s.invitations[id] = inv
		n++
	}
	return n, nil
}
