package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/security"
	"github.com/newsdesk/newsdesk/internal/pkg/usercontext"
)

const (
	MsgNoToken       = "Access denied. No token provided"
	MsgInvalidToken  = "Invalid or expired token"
	MsgLoginRequired = "Authentication required"
	MsgAccessDenied  = "Access denied"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*security.Claims, error)
}

func extractBearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireAuth verifies the bearer token and stores the caller in the user context.
func RequireAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractBearerToken(c)
		if raw == "" {
			return apperror.Unauthorized(MsgNoToken)
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			log.Debugf("[Auth] Rejected token for %s %s: %v", c.Method(), c.Path(), err)
			return apperror.Unauthorized(MsgInvalidToken)
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     claims.UserID,
			Username:   claims.Username,
			Role:       claims.Role,
			IsLoggedIn: true,
		})
		return c.Next()
	}
}

// CheckRole lets the request through only for callers holding one of roles.
// It must run after RequireAuth.
func CheckRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return apperror.Unauthorized(MsgLoginRequired)
		}
		if !userCtx.Actor().Is(roles...) {
			log.Warnf("[Auth] %s (%s) denied on %s %s", userCtx.Username, userCtx.Role, c.Method(), c.Path())
			return apperror.Forbidden(MsgAccessDenied)
		}
		return c.Next()
	}
}
