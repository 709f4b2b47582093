package theme

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ThemeApi struct {
	controller *ThemeController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewThemeApi(controller *ThemeController, roles middleware.RoleChecker, grants middleware.GrantChecker) *ThemeApi {
	return &ThemeApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *ThemeApi) Setup(app *fiber.App) {
	themes := app.Group("/api/themes", middleware.AuthMiddleware())

	// read is listed before read_own so holders of the broader permission
	// never get a narrowed page.
	themes.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "themes", Action: "read"}, "themes.read", "themes.read_own"),
		a.controller.ListThemes)
	themes.Post("/",
		middleware.Guard(a.roles, a.grants, nil, "themes.create"),
		a.controller.CreateTheme)
	themes.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "themes", Action: "read", Param: "id"}, "themes.read"),
		a.controller.GetTheme)
	themes.Put("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "themes", Action: "update", Param: "id"}, "themes.update"),
		a.controller.UpdateTheme)
	themes.Delete("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "themes", Action: "delete", Param: "id"}, "themes.delete"),
		a.controller.DeleteTheme)
}
