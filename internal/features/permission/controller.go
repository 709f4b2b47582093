package permission

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type PermissionController struct {
	PermissionService PermissionService
}

func NewPermissionController(permissionService PermissionService) *PermissionController {
	return &PermissionController{PermissionService: permissionService}
}

type PermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (ctrl *PermissionController) CreatePermission(c *fiber.Ctx) error {
	var req PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Name == "" {
		return apperr.ErrBadRequest
	}

	perm, err := ctrl.PermissionService.CreatePermission(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": perm})
}

func (ctrl *PermissionController) ListPermissions(c *fiber.Ctx) error {
	perms, err := ctrl.PermissionService.ListPermissions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": perms})
}

func (ctrl *PermissionController) GetPermission(c *fiber.Ctx) error {
	perm, err := ctrl.PermissionService.GetPermission(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": perm})
}

func (ctrl *PermissionController) UpdatePermission(c *fiber.Ctx) error {
	var req PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Name == "" {
		return apperr.ErrBadRequest
	}

	if err := ctrl.PermissionService.UpdatePermission(c.UserContext(), c.Params("id"), req.Name, req.Description); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *PermissionController) DeletePermission(c *fiber.Ctx) error {
	if err := ctrl.PermissionService.DeletePermission(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
