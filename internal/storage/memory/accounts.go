package memory

import (
	"context"
	"strings"

	"invitame/internal/domains"
	"invitame/internal/storage"
)

func (s *Store) SaveUser(_ context.Context, passHash string, acc domains.Account) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(acc.Email))
	if _, taken := s.emails[email]; taken {
		return 0, storage.ErrUserExist
	}
	acc.ID = s.nextID()
	acc.Email = email
	acc.Password = passHash
	acc.CreatedAt = s.now().UTC()
	if acc.Role == "" {
		acc.Role = domains.RoleCustomer
	}
	s.accounts[acc.ID] = acc
	s.emails[email] = acc.ID
	return acc.ID, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domains.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domains.Account{}, storage.ErrUserNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (domains.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return domains.Account{}, storage.ErrUserNotFound
	}
	return acc, nil
}
