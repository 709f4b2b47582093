package role

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(roleService RoleService) *RoleController {
	return &RoleController{RoleService: roleService}
}

type CreateRoleRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

// PermissionBatch addresses permissions either by id or by name, depending on
// the endpoint.
type PermissionBatch struct {
	PermissionIDs []string `json:"permission_ids"`
	Names         []string `json:"names"`
}

func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Name == "" {
		return apperr.ErrBadRequest
	}

	role, err := ctrl.RoleService.CreateRole(c.UserContext(), req.Name, req.Description, req.PermissionIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": role})
}

func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": roles})
}

func (ctrl *RoleController) GetRole(c *fiber.Ctx) error {
	view, err := ctrl.RoleService.GetRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": view})
}

func (ctrl *RoleController) AssignPermissions(c *fiber.Ctx) error {
	var req PermissionBatch
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if len(req.PermissionIDs) == 0 {
		return apperr.ErrBadRequest
	}

	if err := ctrl.RoleService.AssignByIDs(c.UserContext(), c.Params("id"), req.PermissionIDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *RoleController) AssignPermissionsByName(c *fiber.Ctx) error {
	var req PermissionBatch
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if len(req.Names) == 0 {
		return apperr.ErrBadRequest
	}

	if err := ctrl.RoleService.AssignByNames(c.UserContext(), c.Params("id"), req.Names); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *RoleController) RemovePermissions(c *fiber.Ctx) error {
	var req PermissionBatch
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if len(req.PermissionIDs) == 0 {
		return apperr.ErrBadRequest
	}

	if err := ctrl.RoleService.RemoveByIDs(c.UserContext(), c.Params("id"), req.PermissionIDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *RoleController) RemovePermissionsByName(c *fiber.Ctx) error {
	var req PermissionBatch
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if len(req.Names) == 0 {
		return apperr.ErrBadRequest
	}

	if err := ctrl.RoleService.RemoveByNames(c.UserContext(), c.Params("id"), req.Names); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
