package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regportal/auth-gateway/internal/core/domain"
)

func accountColumns() []string {
	return []string{"id", "username", "password", "email", "role", "roleid", "sector", "isactive", "lastlogin"}
}

func TestAccountRepository_FindActiveByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lastLogin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(accountColumns()).
		AddRow(int64(7), "alice", "$2a$10$hash", "alice", "regulator_admin", 2, "banking", true, lastLogin)

	mock.ExpectQuery("SELECT (.+) FROM user_master").
		WithArgs("alice", "regulator_admin").
		WillReturnRows(rows)

	repo := NewAccountRepository(db)
	account, err := repo.FindActiveByUsername(context.Background(), domain.RoleRegulatorAdmin, "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, domain.RoleRegulatorAdmin, account.Role)
	assert.Equal(t, 2, account.RoleID)
	assert.Equal(t, "banking", account.Sector)
	assert.True(t, account.Active)
	require.NotNil(t, account.LastLogin)
	assert.Equal(t, lastLogin, *account.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindActiveByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM user_master").
		WithArgs("ghost", "admin").
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	repo := NewAccountRepository(db)
	_, err = repo.FindActiveByUsername(context.Background(), domain.RoleAdmin, "ghost")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindActiveByUsername_NullLastLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns()).
		AddRow(int64(1), "bob", "$2a$10$hash", "bob", "regulated_entity", 3, "", true, nil)

	mock.ExpectQuery("SELECT (.+) FROM user_master").
		WithArgs("bob", "regulated_entity").
		WillReturnRows(rows)

	repo := NewAccountRepository(db)
	account, err := repo.FindActiveByUsername(context.Background(), domain.RoleRegulatedEntity, "bob")
	require.NoError(t, err)
	assert.Nil(t, account.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_ActiveExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewAccountRepository(db)
	exists, err := repo.ActiveExists(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO user_master").
		WithArgs("alice", "$2a$10$hash", "alice", "regulator_admin", 2, "banking", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	repo := NewAccountRepository(db)
	created, err := repo.Create(context.Background(), &domain.Account{
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Email:        "alice",
		Role:         domain.RoleRegulatorAdmin,
		RoleID:       2,
		Sector:       "banking",
		Active:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO user_master").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "user_master_active_username_role"})

	repo := NewAccountRepository(db)
	_, err = repo.Create(context.Background(), &domain.Account{
		Username: "alice",
		Role:     domain.RoleRegulatorAdmin,
		Active:   true,
	})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_OtherFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO user_master").
		WillReturnError(errors.New("connection reset"))

	repo := NewAccountRepository(db)
	_, err = repo.Create(context.Background(), &domain.Account{
		Username: "alice",
		Role:     domain.RoleRegulatorAdmin,
		Active:   true,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAccountExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_TouchLastLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE user_master SET lastlogin").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAccountRepository(db)
	require.NoError(t, repo.TouchLastLogin(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_master").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
