package adminValidator

import (
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

type UnlockRequest struct {
	UserID      uint `json:"userId" validate:"required"`
	LevelNumber int  `json:"levelNumber" validate:"required,min=1"`
}

type GrantRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	XP     int    `json:"xp" validate:"min=0"`
	Coins  int    `json:"coins" validate:"min=0"`
	Reason string `json:"reason" validate:"max=100"`
}

type UserRequest struct {
	UserID uint `json:"userId" validate:"required"`
}

// UnlockLevel validator middleware
func UnlockLevel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UnlockRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUnlock", reqData)
		return c.Next()
	}
}

// Grant validator middleware; at least one of xp and coins must be positive
func Grant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GrantRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Reason = strings.TrimSpace(reqData.Reason)

		errors := validators.Struct(reqData)
		if errors == nil && reqData.XP == 0 && reqData.Coins == 0 {
			errors = map[string]string{"amount": "Either xp or coins must be greater than 0!"}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrant", reqData)
		return c.Next()
	}
}

// User validates a body naming a target user
func User() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("targetUserId", reqData.UserID)
		return c.Next()
	}
}
