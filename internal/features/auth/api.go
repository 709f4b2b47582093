package auth

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{controller: controller}
}

// Setup registers authentication routes. Refresh and logout authenticate
// through the refresh cookie, not the access token, so only /me sits behind
// the auth middleware.
func (a *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/api/auth")

	auth.Post("/login", a.controller.Login)
	auth.Post("/refresh", a.controller.Refresh)
	auth.Post("/logout", a.controller.Logout)
	auth.Get("/me", middleware.AuthMiddleware(), a.controller.Me)

	auth.Post("/verification/issue", a.controller.IssueCode)
	auth.Post("/verification/confirm", a.controller.VerifyCode)
}
