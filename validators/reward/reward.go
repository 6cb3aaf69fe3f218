package rewardValidator

import (
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

type SpendRequest struct {
	Amount int    `json:"amount" validate:"required,min=1"`
	Reason string `json:"reason" validate:"max=100"`
}

type HistoryQuery struct {
	Limit int `query:"limit" validate:"min=0,max=100"`
}

// Spend validator middleware
func Spend() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SpendRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Reason = strings.TrimSpace(reqData.Reason)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSpend", reqData)
		return c.Next()
	}
}

// History validates ?limit=
func History() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(HistoryQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("historyLimit", reqData.Limit)
		return c.Next()
	}
}
