package role

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	controller *RoleController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewRoleApi(controller *RoleController, roles middleware.RoleChecker, grants middleware.GrantChecker) *RoleApi {
	return &RoleApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

// Setup registers role routes. Assign/remove are exposed in both addressing
// modes; each pair funnels into the same internal mutation.
func (a *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware())

	roles.Get("/", middleware.Guard(a.roles, a.grants, nil, "roles.read"), a.controller.ListRoles)
	roles.Post("/", middleware.Guard(a.roles, a.grants, nil, "roles.create"), a.controller.CreateRole)
	roles.Get("/:id", middleware.Guard(a.roles, a.grants, nil, "roles.read"), a.controller.GetRole)

	roles.Post("/:id/permissions", middleware.Guard(a.roles, a.grants, nil, "roles.assign"), a.controller.AssignPermissions)
	roles.Post("/:id/permissions/by-name", middleware.Guard(a.roles, a.grants, nil, "roles.assign"), a.controller.AssignPermissionsByName)
	roles.Delete("/:id/permissions", middleware.Guard(a.roles, a.grants, nil, "roles.unassign"), a.controller.RemovePermissions)
	roles.Delete("/:id/permissions/by-name", middleware.Guard(a.roles, a.grants, nil, "roles.unassign"), a.controller.RemovePermissionsByName)
}
