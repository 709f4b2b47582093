package permission

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermissionApi struct {
	controller *PermissionController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewPermissionApi(controller *PermissionController, roles middleware.RoleChecker, grants middleware.GrantChecker) *PermissionApi {
	return &PermissionApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

// Setup registers permission catalog routes
func (a *PermissionApi) Setup(app *fiber.App) {
	perms := app.Group("/api/permissions", middleware.AuthMiddleware())

	perms.Get("/", middleware.Guard(a.roles, a.grants, nil, "permissions.read"), a.controller.ListPermissions)
	perms.Post("/", middleware.Guard(a.roles, a.grants, nil, "permissions.create"), a.controller.CreatePermission)
	perms.Get("/:id", middleware.Guard(a.roles, a.grants, nil, "permissions.read"), a.controller.GetPermission)
	perms.Put("/:id", middleware.Guard(a.roles, a.grants, nil, "permissions.update"), a.controller.UpdatePermission)
	perms.Delete("/:id", middleware.Guard(a.roles, a.grants, nil, "permissions.delete"), a.controller.DeletePermission)
}
