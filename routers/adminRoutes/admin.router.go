package adminRoutes

import (
	adminController "wordquest/controllers/admin"
	"wordquest/middleware"
	"wordquest/models"
	"wordquest/services"
	adminValidator "wordquest/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, engine *services.Engine) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Post("/levels/unlock", adminValidator.UnlockLevel(), adminController.UnlockLevel(engine))
	adminGroup.Post("/rewards/grant", adminValidator.Grant(), adminController.GrantReward(engine))
	adminGroup.Post("/streak/reset", adminValidator.User(), adminController.ResetStreak(engine))
}
