package authController

import (
	"log"

	"wordquest/middleware"
	"wordquest/services"
	authValidator "wordquest/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func Register(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)

		user, err := engine.Auth.Register(c.UserContext(), services.RegisterInput{
			Username: reqData.Username,
			Email:    reqData.Email,
			Password: reqData.Password,
			FullName: reqData.FullName,
			Role:     reqData.Role,
			Level:    reqData.Level,
		})
		if err != nil {
			return middleware.ServiceError(c, err)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{"user": user})
	}
}

func Login(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

		user, err := engine.Auth.Login(c.UserContext(), reqData.Username, reqData.Password)
		if err != nil {
			return middleware.ServiceError(c, err)
		}

		token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role, user.Level)
		if err != nil {
			log.Printf("Error generating token for user %d: %v", user.ID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token!")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
			"user":  user,
			"token": token,
		})
	}
}
