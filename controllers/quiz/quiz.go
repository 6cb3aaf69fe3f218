package quizController

import (
	"wordquest/middleware"
	"wordquest/services"
	quizValidator "wordquest/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func StartQuiz(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := engine.Quiz.StartQuiz(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "session", session)
	}
}

func SubmitQuiz(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedSubmission").(*quizValidator.SubmitRequest)

		result, err := engine.Quiz.SubmitQuiz(c.UserContext(), middleware.UserID(c), reqData.LevelNumber, reqData.Parsed)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func RetakeQuiz(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := engine.Quiz.RetakeQuiz(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func CreateImageQuiz(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedImageQuiz").(*quizValidator.ImageQuizRequest)

		quiz, err := engine.Quiz.CreateImageQuiz(c.UserContext(), reqData.LevelNumber, reqData.Language)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "quiz", quiz)
	}
}

func GetQuizResult(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := engine.Quiz.GetQuizResult(c.UserContext(), middleware.UserID(c), c.Locals("levelNumber").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func GetQuizHistory(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		history, err := engine.Quiz.GetQuizHistory(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "history", history)
	}
}
