package sqlite

import (
	"context"
	"strings"

	"github.com/example/desk-reservation/internal/persistence"
)

// AccountRepository stores accounts and receptionist grants in SQLite.
type AccountRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewAccountRepository creates a new SQLite account repository
func NewAccountRepository(pool *ConnectionPool) *AccountRepository {
	return &AccountRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateAccount inserts a new account. Emails are stored lower-cased.
func (r *AccountRepository) CreateAccount(ctx context.Context, account persistence.Account) error {
	if account.ID == "" || account.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	const stmt = `
		INSERT INTO users (id, user_name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.pool.DB().ExecContext(ctx, stmt,
		account.ID,
		account.UserName,
		normalizeEmail(account.Email),
		account.PasswordHash,
		formatTimestamp(account.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// GetAccountByEmail looks up an account case-insensitively.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	if strings.TrimSpace(email) == "" {
		return persistence.Account{}, persistence.ErrNotFound
	}

	const query = `SELECT id, user_name, email, password_hash, created_at FROM users WHERE email = ?`
	var (
		account   persistence.Account
		createdAt string
	)
	err := r.pool.DB().QueryRowContext(ctx, query, normalizeEmail(email)).
		Scan(&account.ID, &account.UserName, &account.Email, &account.PasswordHash, &createdAt)
	if err != nil {
		return persistence.Account{}, r.mapper.MapError(err)
	}
	if account.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Account{}, err
	}
	return account, nil
}

// IsReceptionist reports whether the email holds the receptionist role.
func (r *AccountRepository) IsReceptionist(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.DB().QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM receptionists WHERE email = ?)`, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	return exists, nil
}

// AddReceptionist grants the receptionist role. Granting twice is a no-op.
func (r *AccountRepository) AddReceptionist(ctx context.Context, email string) error {
	_, err := r.pool.DB().ExecContext(ctx, `INSERT OR IGNORE INTO receptionists (email) VALUES (?)`, normalizeEmail(email))
	return r.mapper.MapError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
