package actionlog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ActionLogController struct {
	Recorder Recorder
}

func NewActionLogController(recorder Recorder) *ActionLogController {
	return &ActionLogController{Recorder: recorder}
}

// ListLogs returns persisted audit entries, newest first.
func (ctrl *ActionLogController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	filter := map[string]interface{}{}
	if table := c.Query("table"); table != "" {
		filter["table"] = table
	}
	if adminID := c.Query("admin_id"); adminID != "" {
		filter["admin_id"] = adminID
	}

	logs, total, err := ctrl.Recorder.List(c.UserContext(), filter, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    logs,
		"total":   total,
	})
}
