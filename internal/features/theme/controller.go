package theme

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ThemeController struct {
	ThemeService ThemeService
}

func NewThemeController(themeService ThemeService) *ThemeController {
	return &ThemeController{ThemeService: themeService}
}

type CreateThemeRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	PreviewURL  string  `json:"preview_url"`
	Price       float64 `json:"price"`
}

type UpdateThemeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PreviewURL  string   `json:"preview_url"`
	Price       *float64 `json:"price"`
	Status      string   `json:"status"`
}

func (ctrl *ThemeController) CreateTheme(c *fiber.Ctx) error {
	var req CreateThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Name == "" {
		return apperr.ErrBadRequest
	}

	theme, err := ctrl.ThemeService.CreateTheme(c.UserContext(), CreateThemeInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PreviewURL:  req.PreviewURL,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": theme})
}

func (ctrl *ThemeController) ListThemes(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	// When the caller got in on read_own, narrow the page to their grants.
	ownOnly := false
	if claims, ok := middleware.ClaimsFrom(c); ok {
		for _, p := range claims.Permissions {
			if p == "themes.read_own" {
				ownOnly = true
				break
			}
		}
	}

	themes, total, err := ctrl.ThemeService.ListThemes(c.UserContext(), int64(limit), int64((page-1)*limit), ownOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    themes,
		"meta":    fiber.Map{"page": page, "limit": limit, "total": total},
	})
}

func (ctrl *ThemeController) GetTheme(c *fiber.Ctx) error {
	theme, err := ctrl.ThemeService.GetTheme(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": theme})
}

func (ctrl *ThemeController) UpdateTheme(c *fiber.Ctx) error {
	var req UpdateThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := ctrl.ThemeService.UpdateTheme(c.UserContext(), c.Params("id"), UpdateThemeInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PreviewURL:  req.PreviewURL,
		Price:       req.Price,
		Status:      req.Status,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *ThemeController) DeleteTheme(c *fiber.Ctx) error {
	if err := ctrl.ThemeService.DeleteTheme(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
