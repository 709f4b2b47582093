package admin

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	controller *AdminController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewAdminApi(controller *AdminController, roles middleware.RoleChecker, grants middleware.GrantChecker) *AdminApi {
	return &AdminApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *AdminApi) Setup(app *fiber.App) {
	admins := app.Group("/api/admins", middleware.AuthMiddleware())

	admins.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "admins", Action: "read"}, "admins.read"),
		a.controller.ListAdmins)
	admins.Post("/",
		middleware.Guard(a.roles, a.grants, nil, "admins.create"),
		a.controller.CreateAdmin)
	admins.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "admins", Action: "read", Param: "id"}, "admins.read"),
		a.controller.GetAdmin)
	admins.Put("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "admins", Action: "update", Param: "id"}, "admins.update"),
		a.controller.UpdateAdmin)
	admins.Delete("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "admins", Action: "delete", Param: "id"}, "admins.delete"),
		a.controller.RemoveAdmin)
}
