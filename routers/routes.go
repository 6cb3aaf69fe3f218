// Package routers mounts every route group on the app.
package routers

import (
	"wordquest/catalog"
	"wordquest/routers/adminRoutes"
	"wordquest/routers/authRoutes"
	"wordquest/routers/levelRoutes"
	"wordquest/routers/progressRoutes"
	"wordquest/routers/quizRoutes"
	"wordquest/routers/rewardRoutes"
	"wordquest/routers/translationRoutes"
	"wordquest/services"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, engine *services.Engine, cat catalog.Catalog) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	authRoutes.SetupAuthRoutes(app, engine)
	levelRoutes.SetupLevelRoutes(app, engine)
	quizRoutes.SetupQuizRoutes(app, engine)
	progressRoutes.SetupProgressRoutes(app, engine)
	rewardRoutes.SetupRewardRoutes(app, engine)
	adminRoutes.SetupAdminRoutes(app, engine)
	translationRoutes.SetupTranslationRoutes(app, cat)
}
