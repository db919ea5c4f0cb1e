package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/regportal/auth-gateway/internal/core/domain"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// AccountRepository persists accounts in the user_master table.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindActiveByUsername(ctx context.Context, role domain.Role, username string) (*domain.Account, error) {
	const query = `
		SELECT id, username, password, email, role, roleid, sector, isactive, lastlogin
		FROM user_master
		WHERE username = $1 AND role = $2 AND isactive`

	var (
		acc       domain.Account
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username, string(role)).Scan(
		&acc.ID,
		&acc.Username,
		&acc.PasswordHash,
		&acc.Email,
		&acc.Role,
		&acc.RoleID,
		&acc.Sector,
		&acc.Active,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		acc.LastLogin = &t
	}
	return &acc, nil
}

func (r *AccountRepository) ActiveExists(ctx context.Context, role domain.Role) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_master WHERE role = $1 AND isactive)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, string(role)).Scan(&exists); err != nil {
		return false, fmt.Errorf("active exists: %w", err)
	}
	return exists, nil
}

// Create inserts the account in a single statement; the partial unique index
// on (username, role) serialises concurrent duplicate registrations, and the
// loser surfaces as domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const query = `
		INSERT INTO user_master (username, password, email, role, roleid, sector, isactive)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	created := *account
	err := r.db.QueryRowContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.Email,
		string(account.Role),
		account.RoleID,
		account.Sector,
		account.Active,
	).Scan(&created.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &created, nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id int64) error {
	const query = `UPDATE user_master SET lastlogin = CURRENT_TIMESTAMP WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
