package plan

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type PlanController struct {
	PlanService PlanService
}

func NewPlanController(planService PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

type CreatePlanRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}

type UpdatePlanRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}

type PlanStatusRequest struct {
	Active bool `json:"active"`
}

func (ctrl *PlanController) CreatePlan(c *fiber.Ctx) error {
	var req CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Name == "" || req.Interval == "" {
		return apperr.ErrBadRequest
	}

	plan, err := ctrl.PlanService.CreatePlan(c.UserContext(), CreatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Interval:    req.Interval,
		Features:    req.Features,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": plan})
}

func (ctrl *PlanController) ListPlans(c *fiber.Ctx) error {
	plans, err := ctrl.PlanService.ListPlans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": plans})
}

func (ctrl *PlanController) GetPlan(c *fiber.Ctx) error {
	plan, err := ctrl.PlanService.GetPlan(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": plan})
}

func (ctrl *PlanController) UpdatePlan(c *fiber.Ctx) error {
	var req UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := ctrl.PlanService.UpdatePlan(c.UserContext(), c.Params("id"), UpdatePlanInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Interval:    req.Interval,
		Features:    req.Features,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *PlanController) SetPlanStatus(c *fiber.Ctx) error {
	var req PlanStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := ctrl.PlanService.SetPlanStatus(c.UserContext(), c.Params("id"), req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *PlanController) DeletePlan(c *fiber.Ctx) error {
	if err := ctrl.PlanService.DeletePlan(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
