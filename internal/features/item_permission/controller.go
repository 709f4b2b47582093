package item_permission

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type ItemPermissionController struct {
	Service ItemPermissionService
}

func NewItemPermissionController(service ItemPermissionService) *ItemPermissionController {
	return &ItemPermissionController{Service: service}
}

type AssignRequest struct {
	UserID   string `json:"user_id"`
	Table    string `json:"table"`
	Action   string `json:"action"`
	ItemID   string `json:"item_id"`
	Absolute bool   `json:"absolute"`
}

type UnassignRequest struct {
	UserID string `json:"user_id"`
	Table  string `json:"table"`
	Action string `json:"action"`
	ItemID string `json:"item_id"`
}

type RevokeRequest struct {
	UserID string `json:"user_id"`
	Table  string `json:"table"`
	Action string `json:"action"`
}

func (ctrl *ItemPermissionController) Assign(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.UserID == "" || req.Table == "" || req.Action == "" {
		return apperr.ErrBadRequest
	}
	if !req.Absolute && req.ItemID == "" {
		return apperr.ErrMissingItemID
	}

	if err := ctrl.Service.Assign(c.UserContext(), req.UserID, req.Table, req.Action, req.ItemID, req.Absolute); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

func (ctrl *ItemPermissionController) Unassign(c *fiber.Ctx) error {
	var req UnassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.UserID == "" || req.Table == "" || req.Action == "" {
		return apperr.ErrBadRequest
	}
	if req.ItemID == "" {
		return apperr.ErrMissingItemID
	}

	if err := ctrl.Service.Unassign(c.UserContext(), req.UserID, req.Table, req.Action, req.ItemID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *ItemPermissionController) Revoke(c *fiber.Ctx) error {
	var req RevokeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.UserID == "" || req.Table == "" || req.Action == "" {
		return apperr.ErrBadRequest
	}

	if err := ctrl.Service.Revoke(c.UserContext(), req.UserID, req.Table, req.Action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *ItemPermissionController) ListByUser(c *fiber.Ctx) error {
	grants, err := ctrl.Service.ListByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": grants})
}
