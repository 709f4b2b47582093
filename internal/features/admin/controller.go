package admin

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	AdminService AdminService
}

func NewAdminController(adminService AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

type CreateAdminRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
	RoleID   string `json:"role_id"`
}

type UpdateAdminRequest struct {
	UserName string `json:"userName"`
	RoleID   string `json:"role_id"`
}

func (ctrl *AdminController) CreateAdmin(c *fiber.Ctx) error {
	var req CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Email == "" || req.UserName == "" || req.Password == "" || req.RoleID == "" {
		return apperr.ErrBadRequest
	}

	admin, err := ctrl.AdminService.CreateAdmin(c.UserContext(), CreateAdminInput{
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": admin})
}

func (ctrl *AdminController) ListAdmins(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	admins, total, err := ctrl.AdminService.ListAdmins(c.UserContext(), int64(limit), int64((page-1)*limit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    admins,
		"meta":    fiber.Map{"page": page, "limit": limit, "total": total},
	})
}

func (ctrl *AdminController) GetAdmin(c *fiber.Ctx) error {
	admin, err := ctrl.AdminService.GetAdmin(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": admin})
}

func (ctrl *AdminController) UpdateAdmin(c *fiber.Ctx) error {
	var req UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := ctrl.AdminService.UpdateAdmin(c.UserContext(), c.Params("id"), UpdateAdminInput{
		UserName: req.UserName,
		RoleID:   req.RoleID,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *AdminController) RemoveAdmin(c *fiber.Ctx) error {
	if err := ctrl.AdminService.RemoveAdmin(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
