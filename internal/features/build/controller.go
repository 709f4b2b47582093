package build

import (
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type BuildController struct {
	Repo BuildRepository
}

func NewBuildController(repo BuildRepository) *BuildController {
	return &BuildController{Repo: repo}
}

func (ctrl *BuildController) ListBuilds(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	status := c.Query("status")
	switch status {
	case "", StatusQueued, StatusRunning, StatusSucceeded, StatusFailed:
	default:
		return apperr.ErrBadRequest
	}

	builds, total, err := ctrl.Repo.List(c.UserContext(), status, int64(limit), int64((page-1)*limit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    builds,
		"meta":    fiber.Map{"page": page, "limit": limit, "total": total},
	})
}

func (ctrl *BuildController) GetBuild(c *fiber.Ctx) error {
	b, err := ctrl.Repo.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": b})
}
