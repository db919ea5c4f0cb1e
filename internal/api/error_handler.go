package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/regportal/auth-gateway/internal/core/domain"
	"github.com/regportal/auth-gateway/internal/pkg/token"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Duplicate and
	// validation failures both render 400; credential and token failures
	// are all 401 so callers cannot tell them apart.
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusBadRequest, "Username and password are required."
	case errors.Is(err, domain.ErrAdminExists):
		return http.StatusBadRequest, "Admin already exists."
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusBadRequest, "Username already exists."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, token.ErrExpiredToken), errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
