package middleware

import (
	"strings"

	"ninawa-bookdesk/internal/config"
	"ninawa-bookdesk/internal/core/domain"
	"ninawa-bookdesk/internal/pkg/jwt"
	"ninawa-bookdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// extractToken pulls the access token from the cookie or Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("actorID", claims.ActorID)
		c.Locals("actorType", claims.ActorType)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// ActorMiddleware creates actor-type authorization middleware
func ActorMiddleware(allowedActors ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorType, ok := c.Locals("actorType").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedActors {
			if actorType == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only admin users
func AdminOnly() fiber.Handler {
	return ActorMiddleware(string(domain.ActorAdmin))
}

// OfficeOrAdmin middleware allows office accounts and admin users
func OfficeOrAdmin() fiber.Handler {
	return ActorMiddleware(string(domain.ActorOffice), string(domain.ActorAdmin))
}
