package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/desk-reservation/internal/persistence"
)

type AccountRepository struct {
	q querier
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{q: querier{pool: pool}}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account persistence.Account) error {
	if account.ID == "" || account.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}
	const stmt = `
INSERT INTO users (id, user_name, email, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.exec(ctx, stmt, account.ID, account.UserName, normalizeEmail(account.Email), account.PasswordHash, account.CreatedAt)
	return mapError("create account", err)
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	const query = `SELECT id, user_name, email, password_hash, created_at FROM users WHERE email = $1`
	var a persistence.Account
	err := r.q.queryRow(ctx, query, normalizeEmail(email)).
		Scan(&a.ID, &a.UserName, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return persistence.Account{}, mapError("get account", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (r *AccountRepository) IsReceptionist(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM receptionists WHERE email = $1)`, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, mapError("check receptionist", err)
	}
	return exists, nil
}

func (r *AccountRepository) AddReceptionist(ctx context.Context, email string) error {
	_, err := r.q.exec(ctx, `INSERT INTO receptionists (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, normalizeEmail(email))
	return mapError("add receptionist", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
