package memory

import (
	"cmp"
	"context"
	"slices"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

func (s *Store) GetPlanByCode(_ context.Context, code string) (domains.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.Code == code && p.Active {
			return p, nil
		}
	}
	return domains.Plan{}, storage.ErrNotFound
}

func (s *Store) GetPlanByID(_ context.Context, id int64) (domains.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return domains.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpdatePlanPriceRef(_ context.Context, id int64, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.PriceRef = ref
	s.plans[id] = p
	return nil
}

func (s *Store) ListActivePlans(_ context.Context) ([]domains.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domains.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domains.Plan) int {
		if c := cmp.Compare(a.PriceMXN, b.PriceMXN); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) ListActiveTemplates(_ context.Context) ([]domains.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domains.Template, 0, len(s.templates))
	for _, t := range s.templates {
		if t.Active {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b domains.Template) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetTemplateByKey(_ context.Context, key string) (domains.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.Key == key && t.Active {
			return t, nil
		}
	}
	return domains.Template{}, storage.ErrNotFound
}
