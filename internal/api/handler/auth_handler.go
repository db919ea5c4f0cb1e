package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/regportal/auth-gateway/internal/api/metrics"
	"github.com/regportal/auth-gateway/internal/core/domain"
	"github.com/regportal/auth-gateway/internal/core/ports"
)

// AuthHandler exposes the role-scoped registration and login endpoints. All
// six routes funnel into the same two service calls; only the role and the
// success message differ.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Sector   string `json:"sector,omitempty"`
	RoleID   int    `json:"role_id,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var registerMessages = map[domain.Role]string{
	domain.RoleAdmin:           "Admin registered successfully.",
	domain.RoleRegulatorAdmin:  "Regulator admin registered successfully.",
	domain.RoleRegulatedEntity: "Regulated entity registered successfully.",
}

// RegisterAdmin registers the sole admin account.
//
// @Summary      Register the admin user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Admin registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /admin/register [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, domain.RoleAdmin)
}

// LoginAdmin authenticates the admin and issues a bearer token.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin)
}

// RegisterRegulator registers a regulator admin account.
//
// @Summary      Register a regulator admin
// @Tags         regulator
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Regulator registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /regulator/register [post]
func (h *AuthHandler) RegisterRegulator(c echo.Context) error {
	return h.register(c, domain.RoleRegulatorAdmin)
}

// LoginRegulator authenticates a regulator admin and issues a bearer token.
//
// @Summary      Regulator admin login
// @Tags         regulator
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Regulator credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /regulator/login [post]
func (h *AuthHandler) LoginRegulator(c echo.Context) error {
	return h.login(c, domain.RoleRegulatorAdmin)
}

// RegisterEntity registers a regulated entity account.
//
// @Summary      Register a regulated entity
// @Tags         entity
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Entity registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /entity/register [post]
func (h *AuthHandler) RegisterEntity(c echo.Context) error {
	return h.register(c, domain.RoleRegulatedEntity)
}

// LoginEntity authenticates a regulated entity and issues a bearer token.
//
// @Summary      Regulated entity login
// @Tags         entity
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Entity credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /entity/login [post]
func (h *AuthHandler) LoginEntity(c echo.Context) error {
	return h.login(c, domain.RoleRegulatedEntity)
}

func (h *AuthHandler) register(c echo.Context, role domain.Role) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(role), "invalid").Inc()
		return domain.ErrMissingCredentials
	}

	_, err := h.authService.Register(c.Request().Context(), role, ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Sector:   req.Sector,
		RoleID:   req.RoleID,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(string(role), registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role), "created").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: registerMessages[role]})
}

func (h *AuthHandler) login(c echo.Context, role domain.Role) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues(string(role), "invalid").Inc()
		return domain.ErrMissingCredentials
	}

	token, account, err := h.authService.Login(c.Request().Context(), role, req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(role), loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(role), "ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, Username: account.Username})
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountExists), errors.Is(err, domain.ErrAdminExists):
		return "duplicate"
	case errors.Is(err, domain.ErrMissingCredentials):
		return "invalid"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "denied"
	case errors.Is(err, domain.ErrMissingCredentials):
		return "invalid"
	default:
		return "error"
	}
}
