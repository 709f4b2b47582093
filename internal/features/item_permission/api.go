package item_permission

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ItemPermissionApi struct {
	controller *ItemPermissionController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewItemPermissionApi(controller *ItemPermissionController, roles middleware.RoleChecker, grants middleware.GrantChecker) *ItemPermissionApi {
	return &ItemPermissionApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

// Setup registers item-specific grant routes
func (a *ItemPermissionApi) Setup(app *fiber.App) {
	grants := app.Group("/api/item-permissions", middleware.AuthMiddleware())

	grants.Post("/assign", middleware.Guard(a.roles, a.grants, nil, "permissions.assign"), a.controller.Assign)
	grants.Post("/unassign", middleware.Guard(a.roles, a.grants, nil, "permissions.unassign"), a.controller.Unassign)
	grants.Post("/revoke", middleware.Guard(a.roles, a.grants, nil, "permissions.unassign"), a.controller.Revoke)
	grants.Get("/user/:userId", middleware.Guard(a.roles, a.grants, nil, "permissions.read"), a.controller.ListByUser)
}
