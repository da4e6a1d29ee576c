package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cheeze-hyeon/alog/internal/impact"
	"github.com/cheeze-hyeon/alog/internal/utils"
)

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseDateRange(c *fiber.Ctx) (utils.DateRange, error) {
	r, err := utils.ParseDateRange(c.Query("from"), c.Query("to"), impact.KST)
	if err != nil {
		return r, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return r, nil
}

func strPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
