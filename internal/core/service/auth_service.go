package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/regportal/auth-gateway/internal/core/domain"
	"github.com/regportal/auth-gateway/internal/core/ports"
	"github.com/regportal/auth-gateway/internal/pkg/password"
	"github.com/regportal/auth-gateway/internal/pkg/token"
)

// AuthService implements registration and login for every role scope. The
// three role flows share this single implementation; the differences
// (numeric role id, single-slot rule, extra fields) live on domain.Role.
type AuthService struct {
	repo   ports.AccountRepository
	hasher password.Hasher
	tokens *token.Issuer
	logger zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, hasher password.Hasher, tokens *token.Issuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates an account in the given role scope. It fails with
// domain.ErrAdminExists when the role is single-slot and already occupied,
// and with domain.ErrAccountExists when the username is taken among active
// accounts of the role. The pre-insert existence check and the store's
// uniqueness constraint overlap on purpose: the constraint resolves the
// race between two concurrent registrations, and the store reports the
// loser as domain.ErrAccountExists.
func (s *AuthService) Register(ctx context.Context, role domain.Role, input ports.RegisterInput) (*domain.Account, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if !role.Valid() {
		return nil, domain.ErrMissingCredentials
	}

	if role.SingleSlot() {
		taken, err := s.repo.ActiveExists(ctx, role)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrAdminExists
		}
	}

	if _, err := s.repo.FindActiveByUsername(ctx, role, input.Username); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	roleID := role.DefaultRoleID()
	if role.AllowsRoleIDOverride() && input.RoleID > 0 {
		roleID = input.RoleID
	}

	account := &domain.Account{
		Username: input.Username,
		// Registration collects no address; email mirrors the username.
		Email:        input.Username,
		PasswordHash: hash,
		Role:         role,
		RoleID:       roleID,
		Sector:       input.Sector,
		Active:       true,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("role", string(role)).Str("username", created.Username).Msg("account registered")
	return created, nil
}

// Login authenticates an account and returns a bearer token bound to the
// username. Unknown usernames and wrong passwords are indistinguishable to
// the caller: both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, role domain.Role, username, pw string) (string, *domain.Account, error) {
	if username == "" || pw == "" {
		return "", nil, domain.ErrMissingCredentials
	}

	account, err := s.repo.FindActiveByUsername(ctx, role, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(pw, account.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Best effort: a failed timestamp update must not fail the login.
	if err := s.repo.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn().Err(err).Str("username", account.Username).Msg("last login update failed")
	} else {
		now := time.Now().UTC()
		account.LastLogin = &now
	}

	tok, err := s.tokens.Issue(account.Username)
	if err != nil {
		return "", nil, err
	}

	return tok, account, nil
}
