package levelRoutes

import (
	levelController "wordquest/controllers/level"
	"wordquest/middleware"
	"wordquest/services"
	levelValidator "wordquest/validators/level"

	"github.com/gofiber/fiber/v2"
)

func SetupLevelRoutes(app *fiber.App, engine *services.Engine) {
	levelGroup := app.Group("/levels", middleware.JWTMiddleware)

	levelGroup.Get("/user/stats", levelController.GetUserStats(engine))
	levelGroup.Get("/user/levels", levelController.GetUserLevels(engine))
	levelGroup.Post("/unlock-next", levelController.UnlockNextLevel(engine))

	levelGroup.Get("/:level", levelValidator.LevelParam(), levelValidator.Language(), levelController.GetLevel(engine))
	levelGroup.Get("/:level/status", levelValidator.LevelParam(), levelController.GetLevelStatus(engine))
	levelGroup.Get("/:level/remaining", levelValidator.LevelParam(), levelValidator.Language(), levelController.GetRemainingWords(engine))
	levelGroup.Post("/:level/complete-word", levelValidator.LevelParam(), levelValidator.Word(), levelController.CompleteWord(engine))
	levelGroup.Post("/:level/master-word", levelValidator.LevelParam(), levelValidator.Word(), levelController.MasterWord(engine))
	levelGroup.Post("/:level/reset", levelValidator.LevelParam(), levelController.ResetLevel(engine))
}
