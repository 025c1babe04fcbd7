package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/adapters/persistence/repositories"
	"skillswap/internal/config"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/pkg/response"
)

// AuthMiddleware validates the bearer token and re-fetches the principal
// on every request, so a token issued before a deactivation stops working
// immediately.
func AuthMiddleware(cfg *config.Config, userRepo repositories.UserRepository, adminRepo repositories.AdminRepository) fiber.Handler {
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

		switch claims.ActorType {
		case jwt.ActorAdmin:
			admin, err := adminRepo.GetByID(c.UserContext(), claims.ActorID)
			if err != nil || admin.Status != "active" {
				return response.Unauthorized(c, "Account is not active")
			}
			c.Locals("role", admin.Role)
		case jwt.ActorUser:
			user, err := userRepo.GetByID(c.UserContext(), claims.ActorID)
			if err != nil || !user.CanAuthenticate() {
				return response.Unauthorized(c, "Account is not active")
			}
			c.Locals("role", "")
		default:
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("actorID", claims.ActorID)
		c.Locals("actorType", claims.ActorType)
		c.Locals("username", claims.Username)
		c.Locals("isAdmin", claims.ActorType == jwt.ActorAdmin)

		return c.Next()
	}
}

// AdminOnly allows only admin principals of any role
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("isAdmin").(bool); !ok || !isAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// RequireRoles allows only admin principals holding one of the roles
func RequireRoles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("isAdmin").(bool); !ok || !isAdmin {
			return response.Forbidden(c, "Admin access required")
		}
		role, _ := c.Locals("role").(string)
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// UserOnly allows only regular user principals
func UserOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorType, _ := c.Locals("actorType").(string)
		if actorType != jwt.ActorUser {
			return response.Forbidden(c, "User account required")
		}
		return c.Next()
	}
}

// OptionalAuth sets principal info when a valid token is present but never
// rejects the request.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("actorID", claims.ActorID)
				c.Locals("actorType", claims.ActorType)
				c.Locals("username", claims.Username)
				c.Locals("isAdmin", claims.ActorType == jwt.ActorAdmin)
			}
		}
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies("access_token")
}
