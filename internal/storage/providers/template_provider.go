package providers

import (
	"context"
	"errors"
	"fmt"

	"invitame/internal/domains"
	"invitame/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateProvider struct {
	db *pgxpool.Pool
}

func NewTemplateProvider(pg *pgxpool.Pool) *TemplateProvider {
	return &TemplateProvider{
		db: pg,
	}
}

const selectTemplate = `
    SELECT id, key, name, tier, category, sort_order,
           COALESCE(preview_img, ''), base_theme, active
    FROM templates`

func scanTemplate(row pgx.CollectableRow) (domains.Template, error) {
	var t domains.Template
	var base []byte
	err := row.Scan(&t.ID, &t.Key, &t.Name, &t.Tier, &t.Category, &t.SortOrder, &t.PreviewImg, &base, &t.Active)
	t.BaseTheme = base
	return t, err
}

// ListActiveTemplates returns the whole active catalog. Tier filtering and
// ordering happen in the service.
func (s *TemplateProvider) ListActiveTemplates(ctx context.Context) ([]domains.Template, error) {
	rows, err := s.db.Query(ctx, selectTemplate+` WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	templates, err := pgx.CollectRows(rows, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateProvider) GetTemplateByKey(ctx context.Context, key string) (domains.Template, error) {
	rows, err := s.db.Query(ctx, selectTemplate+` WHERE key = $1 AND active LIMIT 1`, key)
	if err != nil {
		return domains.Template{}, fmt.Errorf("select template: %w", err)
	}
	t, err := pgx.CollectOneRow(rows, scanTemplate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Template{}, storage.ErrNotFound
		}
		return domains.Template{}, fmt.Errorf("select template: %w", err)
	}
	return t, nil
}
