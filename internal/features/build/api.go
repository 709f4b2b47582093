package build

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BuildApi struct {
	controller *BuildController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewBuildApi(controller *BuildController, roles middleware.RoleChecker, grants middleware.GrantChecker) *BuildApi {
	return &BuildApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *BuildApi) Setup(app *fiber.App) {
	builds := app.Group("/api/builds", middleware.AuthMiddleware())

	builds.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "builds", Action: "read"}, "builds.read"),
		a.controller.ListBuilds)
	builds.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "builds", Action: "read", Param: "id"}, "builds.read"),
		a.controller.GetBuild)
}
