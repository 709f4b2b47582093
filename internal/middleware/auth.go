package middleware

import (
	"context"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer access token and injects identity claims
// into both fiber Locals and the request context. Every validation failure maps
// to the same 401 so clients cannot distinguish malformed from expired tokens.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.ErrUnauthorized
		}

		// Extract token from "Bearer <token>"
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return apperr.ErrUnauthorized
		}

		token := authHeader[7:]
		claims, err := utils.ValidateToken(token, utils.AccessToken)
		if err != nil {
			return apperr.ErrUnauthorized
		}

		c.Locals(utils.ClaimsKey, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), utils.ClaimsKey, claims))
		return c.Next()
	}
}

// ClaimsFrom pulls the authenticated claims out of fiber Locals.
func ClaimsFrom(c *fiber.Ctx) (*utils.IdentityClaims, bool) {
	claims, ok := c.Locals(utils.ClaimsKey).(*utils.IdentityClaims)
	return claims, ok
}
