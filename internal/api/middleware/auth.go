package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/regportal/auth-gateway/internal/api/metrics"
	"github.com/regportal/auth-gateway/internal/core/ports"
	"github.com/regportal/auth-gateway/internal/pkg/token"
)

// Auth validates the bearer token and injects the authenticated username
// into the request context under "username".
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subject, err := verifier.Verify(parts[1])
			if err != nil {
				result := "invalid"
				if errors.Is(err, token.ErrExpiredToken) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set("username", subject)
			return next(c)
		}
	}
}
