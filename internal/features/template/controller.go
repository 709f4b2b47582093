package template

import (
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

const listTTL = 5 * time.Minute

type TemplateController struct {
	Repo  TemplateRepository
	Cache *cache.Cache
}

func NewTemplateController(repo TemplateRepository, c *cache.Cache) *TemplateController {
	return &TemplateController{Repo: repo, Cache: c}
}

func (ctrl *TemplateController) ListTemplates(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := cache.Key("templates", "list")

	var cached []Template
	if ok, err := ctrl.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return c.JSON(fiber.Map{"success": true, "data": cached})
	}

	templates, err := ctrl.Repo.List(ctx)
	if err != nil {
		return err
	}
	_ = ctrl.Cache.SetJSON(ctx, key, templates, listTTL)
	return c.JSON(fiber.Map{"success": true, "data": templates})
}

func (ctrl *TemplateController) GetTemplate(c *fiber.Ctx) error {
	tpl, err := ctrl.Repo.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrNotFound
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": tpl})
}
