package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invitame/internal/domains"
	"invitame/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthProvider struct {
	db *pgxpool.Pool
}

func NewAuthProvider(pg *pgxpool.Pool) *AuthProvider {
	return &AuthProvider{
		db: pg,
	}
}

func (s *AuthProvider) SaveUser(ctx context.Context, passHash string, acc domains.Account) (int64, error) {
	role := acc.Role
	if role == "" {
		role = domains.RoleCustomer
	}
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO accounts (full_name, email, role, passhash, created_at)
         VALUES ($1, $2, $3, $4, NOW())
         RETURNING id`,
		acc.FullName, strings.ToLower(strings.TrimSpace(acc.Email)), role, passHash,
	).Scan(&id)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return 0, storage.ErrUserExist
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

const selectAccount = `SELECT id, full_name, email, passhash, role, created_at FROM accounts`

func (s *AuthProvider) GetUserByEmail(ctx context.Context, email string) (domains.Account, error) {
	return s.getUser(ctx, selectAccount+` WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (s *AuthProvider) GetUserByID(ctx context.Context, id int64) (domains.Account, error) {
	return s.getUser(ctx, selectAccount+` WHERE id = $1`, id)
}

func (s *AuthProvider) getUser(ctx context.Context, query string, arg any) (domains.Account, error) {
	var acc domains.Account
	err := s.db.QueryRow(ctx, query, arg).Scan(&acc.ID, &acc.FullName, &acc.Email, &acc.Password, &acc.Role, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Account{}, storage.ErrUserNotFound
		}
		return domains.Account{}, fmt.Errorf("select account: %w", err)
	}
	return acc, nil
}
