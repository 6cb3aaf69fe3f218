package progressController

import (
	"wordquest/middleware"
	"wordquest/services"
	progressValidator "wordquest/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func GetLevelProgress(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		progress, err := engine.Progress.GetLevelProgress(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "progress", progress)
	}
}

func GetWeeklyStats(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := engine.Progress.GetWeeklyStats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "stats", stats)
	}
}

func GetLeaderboard(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedLeaderboard").(*progressValidator.LeaderboardQuery)

		board, err := engine.Rewards.Leaderboard(c.UserContext(), reqData.Type, reqData.Limit)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "leaderboard", board)
	}
}

func UpdateStreak(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := engine.Streak.UpdateDailyStreak(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}
