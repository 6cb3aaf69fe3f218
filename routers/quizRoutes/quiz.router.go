package quizRoutes

import (
	quizController "wordquest/controllers/quiz"
	"wordquest/middleware"
	"wordquest/services"
	quizValidator "wordquest/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App, engine *services.Engine) {
	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)

	quizGroup.Post("/start", quizValidator.Level(), quizController.StartQuiz(engine))
	quizGroup.Post("/submit", quizValidator.Submit(), quizController.SubmitQuiz(engine))
	quizGroup.Post("/retake", quizValidator.Level(), quizController.RetakeQuiz(engine))
	quizGroup.Post("/create-image-quiz", quizValidator.ImageQuiz(), quizController.CreateImageQuiz(engine))
	quizGroup.Get("/result", quizValidator.LevelQuery(), quizController.GetQuizResult(engine))
	quizGroup.Get("/history", quizController.GetQuizHistory(engine))
}
