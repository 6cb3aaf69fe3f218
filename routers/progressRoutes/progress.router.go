package progressRoutes

import (
	progressController "wordquest/controllers/progress"
	"wordquest/middleware"
	"wordquest/services"
	progressValidator "wordquest/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App, engine *services.Engine) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Get("/level", progressValidator.Level(), progressController.GetLevelProgress(engine))
	progressGroup.Get("/weekly-stats", progressController.GetWeeklyStats(engine))
	progressGroup.Get("/leaderboard", progressValidator.Leaderboard(), progressController.GetLeaderboard(engine))
	progressGroup.Post("/update-streak", progressController.UpdateStreak(engine))
}
