package authRoutes

import (
	authController "wordquest/controllers/auth"
	"wordquest/services"
	authValidator "wordquest/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, engine *services.Engine) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register(engine))
	authGroup.Post("/login", authValidator.Login(), authController.Login(engine))
}
