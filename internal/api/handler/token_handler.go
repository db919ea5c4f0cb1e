package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TokenHandler serves the token introspection endpoint. The Auth middleware
// has already verified the bearer token and stored its subject in context.
type TokenHandler struct{}

func NewTokenHandler() *TokenHandler {
	return &TokenHandler{}
}

type verifyTokenResponse struct {
	Username string `json:"username"`
}

// Verify echoes the identity bound to a valid bearer token.
//
// @Summary      Verify a bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyTokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /verify-token [get]
func (h *TokenHandler) Verify(c echo.Context) error {
	username, _ := c.Get("username").(string)
	if username == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, verifyTokenResponse{Username: username})
}
