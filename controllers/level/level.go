package levelController

import (
	"wordquest/middleware"
	"wordquest/services"
	levelValidator "wordquest/validators/level"

	"github.com/gofiber/fiber/v2"
)

// GetLevel returns the level's words with the caller's progress
func GetLevel(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := engine.Progress.GetLevelWithProgress(c.UserContext(),
			middleware.UserID(c), c.Locals("levelNumber").(int), c.Locals("lang").(string))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "level", view)
	}
}

func GetLevelStatus(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := engine.Progress.GetLevelStatus(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "status", status)
	}
}

func GetRemainingWords(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		words, err := engine.Progress.GetRemainingWords(c.UserContext(),
			middleware.UserID(c), c.Locals("levelNumber").(int), c.Locals("lang").(string))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "words", words)
	}
}

func CompleteWord(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedWord").(*levelValidator.WordRequest)

		result, err := engine.Progress.CompleteWord(c.UserContext(),
			middleware.UserID(c), c.Locals("levelNumber").(int), reqData.WordKey)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func MasterWord(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedWord").(*levelValidator.WordRequest)

		result, err := engine.Progress.MasterWord(c.UserContext(),
			middleware.UserID(c), c.Locals("levelNumber").(int), reqData.WordKey)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func ResetLevel(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := engine.Progress.ResetLevelProgress(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func UnlockNextLevel(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := engine.Levels.UnlockNextLevel(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func GetUserStats(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := engine.Progress.GetUserStats(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "stats", stats)
	}
}

func GetUserLevels(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		levels, err := engine.Progress.GetUserLevels(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "levels", levels)
	}
}
