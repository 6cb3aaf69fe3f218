package rewardRoutes

import (
	rewardController "wordquest/controllers/reward"
	"wordquest/middleware"
	"wordquest/services"
	rewardValidator "wordquest/validators/reward"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(app *fiber.App, engine *services.Engine) {
	rewardGroup := app.Group("/rewards", middleware.JWTMiddleware)

	rewardGroup.Get("/", rewardController.GetRewards(engine))
	rewardGroup.Get("/history", rewardValidator.History(), rewardController.GetHistory(engine))
	rewardGroup.Post("/spend", rewardValidator.Spend(), rewardController.SpendCoins(engine))
}
