package ports

import (
	"context"

	"github.com/regportal/auth-gateway/internal/core/domain"
)

// RegisterInput carries the registration payload. Sector and RoleID are
// role-scoped extras: only some roles accept them, the rest ignore them.
type RegisterInput struct {
	Username string
	Password string
	Sector   string
	RoleID   int
}

// AuthService orchestrates registration and login for every role scope.
type AuthService interface {
	Register(ctx context.Context, role domain.Role, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, role domain.Role, username, password string) (string, *domain.Account, error)
}

// TokenVerifier extracts the authenticated subject from a bearer token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
