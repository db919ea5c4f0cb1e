package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/regportal/auth-gateway/internal/pkg/password"
	"github.com/regportal/auth-gateway/internal/pkg/token"
)

// TestRouter drives a registration, login and token verification through the
// fully wired Echo instance. A single test owns the router because the
// Prometheus middleware registers collectors globally.
func TestRouter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	e := NewRouter(Dependencies{
		DB:     db,
		Hasher: password.NewHasher(bcrypt.MinCost),
		Tokens: token.NewIssuer("secret", time.Hour),
		Logger: zerolog.Nop(),
	})

	do := func(method, path, body, authHeader string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	// Liveness probe needs no dependencies.
	rec := do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	var health map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("health: invalid json: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("health: unexpected status %q", health["status"])
	}

	// Registration: uniqueness pre-check finds nothing, insert succeeds.
	mock.ExpectQuery("SELECT (.+) FROM user_master").
		WithArgs("alice", "regulator_admin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("INSERT INTO user_master").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	rec = do(http.MethodPost, "/regulator/register", `{"username":"alice","password":"pw","sector":"banking"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Login: lookup returns the stored hash, last login is stamped.
	hashBytes, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("SELECT (.+) FROM user_master").
		WithArgs("alice", "regulator_admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "role", "roleid", "sector", "isactive", "lastlogin"}).
			AddRow(int64(1), "alice", string(hashBytes), "alice", "regulator_admin", 2, "banking", true, nil))
	mock.ExpectExec("UPDATE user_master SET lastlogin").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec = do(http.MethodPost, "/regulator/login", `{"username":"alice","password":"pw"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var loginResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("login: invalid json: %v", err)
	}
	if loginResp["username"] != "alice" || loginResp["access_token"] == "" {
		t.Fatalf("login: unexpected payload %v", loginResp)
	}

	// The issued token round-trips through /verify-token.
	rec = do(http.MethodGet, "/verify-token", "", "Bearer "+loginResp["access_token"])
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-token: expected 200, got %d", rec.Code)
	}
	var verifyResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &verifyResp); err != nil {
		t.Fatalf("verify-token: invalid json: %v", err)
	}
	if verifyResp["username"] != "alice" {
		t.Fatalf("verify-token: expected alice, got %q", verifyResp["username"])
	}

	// No bearer token at all is rejected.
	rec = do(http.MethodGet, "/verify-token", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("verify-token without header: expected 401, got %d", rec.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
