package actionlog

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ActionLogApi struct {
	controller *ActionLogController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewActionLogApi(controller *ActionLogController, roles middleware.RoleChecker, grants middleware.GrantChecker) *ActionLogApi {
	return &ActionLogApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

// Setup registers action log routes
func (a *ActionLogApi) Setup(app *fiber.App) {
	logs := app.Group("/api/action-logs", middleware.AuthMiddleware())

	logs.Get("/", middleware.Guard(a.roles, a.grants, nil, "action_logs.read"), a.controller.ListLogs)
}
