package user

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewUserApi(controller *UserController, roles middleware.RoleChecker, grants middleware.GrantChecker) *UserApi {
	return &UserApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *UserApi) Setup(app *fiber.App) {
	// Registration is the only unauthenticated route in the group.
	app.Post("/api/users/register", a.controller.Register)

	users := app.Group("/api/users", middleware.AuthMiddleware())
	users.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "users", Action: "read"}, "users.read"),
		a.controller.ListUsers)
	users.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "users", Action: "read", Param: "id"}, "users.read"),
		a.controller.GetUser)
	users.Put("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "users", Action: "update", Param: "id"}, "users.update"),
		a.controller.UpdateUser)
	users.Delete("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "users", Action: "delete", Param: "id"}, "users.delete"),
		a.controller.RemoveUser)
}
