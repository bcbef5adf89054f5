package memory

import (
	"context"
	"time"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

func (s *Store) CreateOrder(_ context.Context, userID, planID int64) (domains.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := domains.Order{
		ID:        s.nextID(),
		UserID:    userID,
		PlanID:    planID,
		Status:    domains.OrderPending,
		CreatedAt: s.now().UTC(),
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) SetOrderSession(_ context.Context, orderID int64, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return storage.ErrNotFound
	}
	o.SessionID = &sessionID
	s.orders[orderID] = o
	return nil
}

func (s *Store) GetOrderByID(_ context.Context, id int64) (domains.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domains.Order{}, storage.ErrNotFound
	}
	return o, nil
}

// MarkOrderPaid moves a pending order to paid. It reports false when the order
// was already paid.
func (s *Store) MarkOrderPaid(_ context.Context, id int64, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	if o.Status == domains.OrderPaid {
		return false, nil
	}
	o.Status = domains.OrderPaid
	o.PaidAt = &paidAt
	s.orders[id] = o
	return true, nil
}
