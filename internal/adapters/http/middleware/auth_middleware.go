package middleware

import (
	"strings"

	"civicsaathi/internal/config"
	"civicsaathi/internal/core/domain"
	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/jwt"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ActorKey is the locals key holding the resolved *domain.Actor
const ActorKey = "actor"

// AuthMiddleware validates the access token and resolves the acting
// identity (including officer/worker ids) into locals.
func AuthMiddleware(cfg *config.Config, authService *services.AuthService) fiber.Handler {
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

		actor, err := authService.ResolveActor(c.Context(), claims)
		if err != nil {
			return response.Unauthorized(c, "Account unavailable")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals(ActorKey, actor)

		return c.Next()
	}
}

// GetActor returns the resolved actor, or the system identity when the
// request carried no authentication (only reachable behind OptionalAuth).
func GetActor(c *fiber.Ctx) *domain.Actor {
	if actor, ok := c.Locals(ActorKey).(*domain.Actor); ok {
		return actor
	}
	system := domain.SystemActor
	return &system
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("ADMIN")
}

// OfficerOrAdmin middleware allows OFFICER or ADMIN roles
func OfficerOrAdmin() fiber.Handler {
	return RoleMiddleware("OFFICER", "ADMIN")
}

// StaffOnly middleware allows OFFICER, WORKER or ADMIN roles
func StaffOnly() fiber.Handler {
	return RoleMiddleware("OFFICER", "WORKER", "ADMIN")
}

// OptionalAuth doesn't require auth but resolves the actor if a valid
// token is present. Anonymous facility ratings go through here.
func OptionalAuth(cfg *config.Config, authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				if actor, err := authService.ResolveActor(c.Context(), claims); err == nil {
					c.Locals("userID", claims.UserID)
					c.Locals("username", claims.Username)
					c.Locals("role", claims.Role)
					c.Locals(ActorKey, actor)
				}
			}
		}
		return c.Next()
	}
}

// extractToken reads the access token from cookie or bearer header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
