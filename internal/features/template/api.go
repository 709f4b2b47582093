package template

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	controller *TemplateController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewTemplateApi(controller *TemplateController, roles middleware.RoleChecker, grants middleware.GrantChecker) *TemplateApi {
	return &TemplateApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *TemplateApi) Setup(app *fiber.App) {
	templates := app.Group("/api/templates", middleware.AuthMiddleware())

	templates.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "templates", Action: "read"}, "templates.read"),
		a.controller.ListTemplates)
	templates.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "templates", Action: "read", Param: "id"}, "templates.read"),
		a.controller.GetTemplate)
}
