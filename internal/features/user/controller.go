package user

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{UserService: userService}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	UserName string `json:"userName"`
}

func (ctrl *UserController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}
	if req.Email == "" || req.UserName == "" || len(req.Password) < 8 {
		return apperr.ErrBadRequest
	}

	user, err := ctrl.UserService.Register(c.UserContext(), RegisterInput{
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": user})
}

func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := ctrl.UserService.ListUsers(c.UserContext(), int64(limit), int64((page-1)*limit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"meta":    fiber.Map{"page": page, "limit": limit, "total": total},
	})
}

func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	user, err := ctrl.UserService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.ErrBadRequest
	}

	if err := ctrl.UserService.UpdateUser(c.UserContext(), c.Params("id"), req.UserName); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *UserController) RemoveUser(c *fiber.Ctx) error {
	if err := ctrl.UserService.RemoveUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
