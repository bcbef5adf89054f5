package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

type TemplateService struct {
	provider TemplateProvider
}

type TemplateProvider interface {
	ListActiveTemplates(ctx context.Context) ([]domains.Template, error)
	GetTemplateByKey(ctx context.Context, key string) (domains.Template, error)
}

func NewTemplateService(provider TemplateProvider) *TemplateService {
	return &TemplateService{
		provider: provider,
	}
}

// FilterForTier returns the templates visible to a plan tier, ordered by
// category, then sort order, then id. "general" sees general templates only,
// "all" sees general and all-tagged ones, any other tier sees everything.
func FilterForTier(templates []domains.Template, tier string) []domains.Template {
	out := make([]domains.Template, 0, len(templates))
	for _, t := range templates {
		switch tier {
		case domains.TierGeneral:
			if t.Tier != domains.TierGeneral {
				continue
			}
		case domains.TierAll:
			if t.Tier != domains.TierGeneral && t.Tier != domains.TierAll {
				continue
			}
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b domains.Template) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (h *TemplateService) ListFor(ctx context.Context, tier string) ([]domains.Template, error) {
	templates, err := h.provider.ListActiveTemplates(ctx)
	if err != nil {
		slog.Error("list templates failed", "err", err)
		return nil, err
	}
	return FilterForTier(templates, tier), nil
}

func (h *TemplateService) Get(ctx context.Context, key string) (domains.Template, error) {
	t, err := h.provider.GetTemplateByKey(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return domains.Template{}, ErrTemplateNotFound
	}
	if err != nil {
		return domains.Template{}, fmt.Errorf("get template %q: %w", key, err)
	}
	return t, nil
}
