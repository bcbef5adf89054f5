package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderProvider struct {
	db *pgxpool.Pool
}

func NewOrderProvider(db *pgxpool.Pool) *OrderProvider {
	return &OrderProvider{db: db}
}

func (s *OrderProvider) CreateOrder(ctx context.Context, userID, planID int64) (domains.Order, error) {
	o := domains.Order{UserID: userID, PlanID: planID, Status: domains.OrderPending}
	err := s.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, plan_id, status) VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		userID, planID, domains.OrderPending,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return domains.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (s *OrderProvider) SetOrderSession(ctx context.Context, orderID int64, sessionID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE orders SET session_id = $1 WHERE id = $2`, sessionID, orderID)
	if err != nil {
		return fmt.Errorf("update order session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *OrderProvider) GetOrderByID(ctx context.Context, id int64) (domains.Order, error) {
	var o domains.Order
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, plan_id, status, session_id, paid_at, created_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.PlanID, &o.Status, &o.SessionID, &o.PaidAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Order{}, storage.ErrNotFound
		}
		return domains.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

// MarkOrderPaid moves a pending order to paid. The status predicate keeps the
// transition monotonic; false means the order was already paid.
func (s *OrderProvider) MarkOrderPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET status = $1, paid_at = $2 WHERE id = $3 AND status = $4`,
		domains.OrderPaid, paidAt, id, domains.OrderPending,
	)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return false, fmt.Errorf("mark order paid: %w", err)
		}
		if !exists {
			return false, storage.ErrNotFound
		}
		return false, nil
	}
	return true, nil
}
