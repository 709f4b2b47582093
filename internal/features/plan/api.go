package plan

import (
	"github.com/mobtwin/admin-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PlanApi struct {
	controller *PlanController
	roles      middleware.RoleChecker
	grants     middleware.GrantChecker
}

func NewPlanApi(controller *PlanController, roles middleware.RoleChecker, grants middleware.GrantChecker) *PlanApi {
	return &PlanApi{
		controller: controller,
		roles:      roles,
		grants:     grants,
	}
}

func (a *PlanApi) Setup(app *fiber.App) {
	plans := app.Group("/api/plans", middleware.AuthMiddleware())

	plans.Get("/",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "plans", Action: "read"}, "plans.read"),
		a.controller.ListPlans)
	plans.Post("/",
		middleware.Guard(a.roles, a.grants, nil, "plans.create"),
		a.controller.CreatePlan)
	plans.Get("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "plans", Action: "read", Param: "id"}, "plans.read"),
		a.controller.GetPlan)
	plans.Put("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "plans", Action: "update", Param: "id"}, "plans.update"),
		a.controller.UpdatePlan)
	plans.Patch("/:id/status",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "plans", Action: "status", Param: "id"}, "plans.status"),
		a.controller.SetPlanStatus)
	plans.Delete("/:id",
		middleware.Guard(a.roles, a.grants, &middleware.Resource{Table: "plans", Action: "delete", Param: "id"}, "plans.delete"),
		a.controller.DeletePlan)
}
