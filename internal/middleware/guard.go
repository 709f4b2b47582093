package middleware

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

// RoleChecker resolves role-based permissions. Implemented by the role service.
type RoleChecker interface {
	// AnyValid returns the first of names held by the role, if any.
	AnyValid(ctx context.Context, roleID string, names []string) (string, bool, error)
}

// GrantChecker resolves item-specific permissions. Implemented by the
// item-permission service.
type GrantChecker interface {
	Check(ctx context.Context, userID, table, action, itemID string) (bool, error)
}

// Resource describes the target of an item-scoped route. Param names the route
// parameter carrying the item id; leave it empty for routes without a concrete
// target (e.g. create), where only absolute grants can match.
type Resource struct {
	Table  string
	Action string
	Param  string
}

// Guard gates a route on the authorization resolver. Item-specific grants are
// evaluated before role permissions: a per-item grant is narrower and must
// override role defaults, and a hit there skips the role expansion entirely.
// The matched role permission name is appended to the identity's claims so
// handlers can tell e.g. read from read_own.
func Guard(roles RoleChecker, grants GrantChecker, resource *Resource, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role == "" {
			return apperr.ErrUnauthorized
		}

		if resource != nil {
			itemID := ""
			if resource.Param != "" {
				itemID = c.Params(resource.Param)
				if itemID == "" {
					return apperr.ErrMissingItemID
				}
			}

			allowed, err := grants.Check(c.UserContext(), claims.UserID, resource.Table, resource.Action, itemID)
			if err != nil {
				return err
			}
			if allowed {
				return c.Next()
			}
		}

		matched, ok, err := roles.AnyValid(c.UserContext(), claims.Role, permissions)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrForbidden
		}

		claims.Permissions = append(claims.Permissions, matched)
		return c.Next()
	}
}
