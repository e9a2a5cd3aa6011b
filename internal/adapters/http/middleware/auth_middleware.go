package middleware

import (
	"strings"

	"coursehub/internal/core/domain"
	"coursehub/internal/pkg/jwt"
	"coursehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie and RefreshTokenCookie are the session cookie names
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// authContextKey is the Locals key of the domain.AuthContext set by AuthMiddleware
const authContextKey = "coursehub.auth"

// AccessVerifier verifies access tokens
type AccessVerifier interface {
	VerifyAccessToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware creates authentication middleware.
// The token is read from the accessToken cookie, falling back to an Authorization Bearer header.
func AuthMiddleware(verifier AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractAccessToken(c)
		if accessToken == "" {
			return response.FromError(c, domain.ErrMissingToken)
		}

		claims, err := verifier.VerifyAccessToken(accessToken)
		if err != nil {
			return response.FromError(c, domain.ErrInvalidToken)
		}

		c.Locals(authContextKey, domain.AuthContext{
			UserID:      claims.UserID,
			DisplayName: claims.DisplayName,
			Role:        domain.Role(claims.Role),
		})

		return c.Next()
	}
}

func extractAccessToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// CurrentUser returns the identity attached by AuthMiddleware
func CurrentUser(c *fiber.Ctx) (domain.AuthContext, bool) {
	auth, ok := c.Locals(authContextKey).(domain.AuthContext)
	return auth, ok
}

// RoleMiddleware creates role-based authorization middleware.
// It must run after AuthMiddleware.
func RoleMiddleware(required domain.Role) fiber.Handler {
	denied := domain.ErrInsufficientRole
	if required == domain.RoleAdmin {
		denied = domain.ErrAdminsOnly
	}

	return func(c *fiber.Ctx) error {
		auth, ok := CurrentUser(c)
		if !ok {
			return response.FromError(c, domain.ErrMissingToken)
		}
		if auth.Role != required {
			return response.FromError(c, denied)
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}
