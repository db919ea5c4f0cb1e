package ports

import (
	"context"

	"github.com/regportal/auth-gateway/internal/core/domain"
)

// AccountRepository defines the persistence boundary for role-scoped accounts.
type AccountRepository interface {
	// FindActiveByUsername returns the active account with the given
	// username inside the role scope, or domain.ErrAccountNotFound.
	FindActiveByUsername(ctx context.Context, role domain.Role, username string) (*domain.Account, error)
	// ActiveExists reports whether any active account of the role exists,
	// regardless of username. Used for single-slot roles.
	ActiveExists(ctx context.Context, role domain.Role) (bool, error)
	// Create inserts a new account. A uniqueness violation surfaces as
	// domain.ErrAccountExists.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// TouchLastLogin stamps the account's last login time.
	TouchLastLogin(ctx context.Context, id int64) error
}
