package progressValidator

import (
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

type LeaderboardQuery struct {
	Type  string `query:"type" validate:"omitempty,oneof=xp levels streak"`
	Limit int    `query:"limit" validate:"min=0,max=50"`
}

type LevelQuery struct {
	LevelNumber int `query:"levelNumber" validate:"required,min=1"`
}

// Leaderboard validates ?type= and ?limit=
func Leaderboard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LeaderboardQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}
		reqData.Type = strings.ToLower(strings.TrimSpace(reqData.Type))

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLeaderboard", reqData)
		return c.Next()
	}
}

// Level validates ?levelNumber=
func Level() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LevelQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("levelNumber", reqData.LevelNumber)
		return c.Next()
	}
}
