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

type PlanProvider struct {
	db *pgxpool.Pool
}

func NewPlanProvider(db *pgxpool.Pool) *PlanProvider {
	return &PlanProvider{db: db}
}

const selectPlan = `
    SELECT id, code, name, price_mxn, allow_registry, allow_music,
           template_scope, COALESCE(price_ref, ''), active
    FROM plans`

func scanPlan(row pgx.CollectableRow) (domains.Plan, error) {
	var p domains.Plan
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.PriceMXN, &p.AllowRegistry, &p.AllowMusic,
		&p.TemplateScope, &p.PriceRef, &p.Active)
	return p, err
}

func (s *PlanProvider) getOne(ctx context.Context, query string, arg any) (domains.Plan, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return domains.Plan{}, fmt.Errorf("select plan: %w", err)
	}
	p, err := pgx.CollectOneRow(rows, scanPlan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Plan{}, storage.ErrNotFound
		}
		return domains.Plan{}, fmt.Errorf("select plan: %w", err)
	}
	return p, nil
}

func (s *PlanProvider) GetPlanByCode(ctx context.Context, code string) (domains.Plan, error) {
	return s.getOne(ctx, selectPlan+` WHERE code = $1 AND active LIMIT 1`, code)
}

func (s *PlanProvider) GetPlanByID(ctx context.Context, id int64) (domains.Plan, error) {
	return s.getOne(ctx, selectPlan+` WHERE id = $1`, id)
}

func (s *PlanProvider) UpdatePlanPriceRef(ctx context.Context, id int64, ref string) error {
	tag, err := s.db.Exec(ctx, `UPDATE plans SET price_ref = $1 WHERE id = $2`, ref, id)
	if err != nil {
		return fmt.Errorf("update plan price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PlanProvider) ListActivePlans(ctx context.Context) ([]domains.Plan, error) {
	rows, err := s.db.Query(ctx, selectPlan+` WHERE active ORDER BY price_mxn, id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	plans, err := pgx.CollectRows(rows, scanPlan)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
