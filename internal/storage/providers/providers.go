package providers

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Providers struct {
	AuthProvider       *AuthProvider
	PlanProvider       *PlanProvider
	TemplateProvider   *TemplateProvider
	OrderProvider      *OrderProvider
	InvitationProvider *InvitationProvider
}

func New(db *pgxpool.Pool) *Providers {
	return &Providers{
		AuthProvider:       NewAuthProvider(db),
		PlanProvider:       NewPlanProvider(db),
		TemplateProvider:   NewTemplateProvider(db),
		OrderProvider:      NewOrderProvider(db),
		InvitationProvider: NewInvitationProvider(db),
	}
}

// uniqueViolation reports the violated constraint when err is a Postgres 23505.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
