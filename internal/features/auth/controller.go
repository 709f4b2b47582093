package auth

import (
	"time"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/internal/config"
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService  AuthService
	Verification VerificationService
	config       *config.Config
}

func NewAuthController(authService AuthService, verification VerificationService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService:  authService,
		Verification: verification,
		config:       cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IssueCodeRequest struct {
	Email string `json:"email"`
	Kind  string `json:"kind"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Login exchanges credentials for an access token. The refresh token is
// delivered only through the http-only cookie, never in the body.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Email == "" || req.Password == "" {
		return apperr.ErrBadRequest
	}

	pair, err := ctrl.AuthService.Login(c.UserContext(), req.Email, req.Password, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return err
	}

	ctrl.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{"success": true, "accessToken": pair.AccessToken})
}

// Refresh rotates the session addressed by the refresh cookie.
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(ctrl.config.CookieName)
	if refreshToken == "" {
		return apperr.ErrInvalidToken
	}

	pair, err := ctrl.AuthService.Refresh(c.UserContext(), refreshToken, c.IP())
	if err != nil {
		return err
	}

	ctrl.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{"success": true, "accessToken": pair.AccessToken})
}

// Logout removes the device session addressed by the bearer token and the
// refresh cookie, and clears the cookie.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return apperr.ErrUnauthorized
	}
	accessToken := authHeader[7:]

	refreshToken := c.Cookies(ctrl.config.CookieName)
	if refreshToken == "" {
		return apperr.ErrInvalidToken
	}

	ip, err := ctrl.AuthService.Logout(c.UserContext(), accessToken, refreshToken)
	if err != nil {
		return err
	}

	ctrl.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"success": true, "ipAddress": ip})
}

// Me returns the authenticated identity claims.
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.ErrUnauthorized
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"id":          claims.UserID,
		"email":       claims.Email,
		"userName":    claims.UserName,
		"role":        claims.Role,
		"permissions": claims.Permissions,
	}})
}

func (ctrl *AuthController) IssueCode(c *fiber.Ctx) error {
	var req IssueCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Email == "" {
		return apperr.ErrBadRequest
	}

	if _, err := ctrl.Verification.IssueCode(c.UserContext(), req.Email, req.Kind, c.IP()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *AuthController) VerifyCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Email == "" || req.Code == "" {
		return apperr.ErrBadRequest
	}

	if err := ctrl.Verification.VerifyCode(c.UserContext(), req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *AuthController) setRefreshCookie(c *fiber.Ctx, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     ctrl.config.CookieName,
		Value:    refreshToken,
		Path:     "/api/auth",
		MaxAge:   int(ctrl.config.RefreshTokenTTL / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (ctrl *AuthController) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     ctrl.config.CookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
