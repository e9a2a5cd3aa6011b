package handlers

import (
	"strings"
	"time"

	"coursehub/internal/adapters/http/middleware"
	"coursehub/internal/config"
	"coursehub/internal/core/domain"
	"coursehub/internal/core/services"
	"coursehub/internal/pkg/response"
	"coursehub/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Create an account. No session is started; sign in afterwards.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.FromError(c, domain.ErrInvalidInput)
	}
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Email = strings.TrimSpace(input.Email)

	if err := validate.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	if _, err := h.authService.Register(c.UserContext(), input); err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "user registered successfully", nil)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate and set the accessToken and refreshToken cookies
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.FromError(c, domain.ErrInvalidInput)
	}
	input.Email = strings.TrimSpace(input.Email)

	if err := validate.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}

	h.setAuthCookies(c, result.Tokens)

	return response.Success(c, "login successful", fiber.Map{
		"user":              result.User.ToResponse(),
		"access_token":      result.Tokens.AccessToken,
		"access_expires_at": result.Tokens.AccessExpiresAt,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Mint a new access token from the refreshToken cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	grant, err := h.authService.Refresh(c.UserContext(), c.Cookies(middleware.RefreshTokenCookie))
	if err != nil {
		return response.FromError(c, err)
	}

	h.setCookie(c, middleware.AccessTokenCookie, grant.AccessToken, grant.ExpiresAt)

	return response.Success(c, "token refreshed successfully", fiber.Map{
		"access_token":      grant.AccessToken,
		"access_expires_at": grant.ExpiresAt,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear both session cookies. Always succeeds.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearAuthCookies(c)
	return response.Success(c, "logged out successfully", nil)
}

// ResetPassword handles password change for the signed-in user
// @Summary Reset password
// @Description Replace the password after checking the current one
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ResetPasswordInput true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return response.FromError(c, domain.ErrMissingToken)
	}

	var input services.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.FromError(c, domain.ErrInvalidInput)
	}
	if err := validate.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	if err := h.authService.ResetPassword(c.UserContext(), auth.UserID, input); err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "password updated successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the currently authenticated user's information
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return response.FromError(c, domain.ErrMissingToken)
	}

	user, err := h.authService.Me(c.UserContext(), auth.UserID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "user retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, tokens domain.TokenPair) {
	h.setCookie(c, middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt)
	h.setCookie(c, middleware.RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt)
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
