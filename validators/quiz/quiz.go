package quizValidator

import (
	"strconv"
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

type LevelRequest struct {
	LevelNumber int `json:"levelNumber" query:"levelNumber" validate:"required,min=1"`
}

type SubmitRequest struct {
	LevelNumber int               `json:"levelNumber" validate:"required,min=1"`
	Answers     map[string]string `json:"answers" validate:"required,min=1"`

	// Parsed holds Answers keyed by question id
	Parsed map[uint]string `json:"-"`
}

type ImageQuizRequest struct {
	LevelNumber int    `json:"levelNumber" validate:"required,min=1"`
	Language    string `json:"language" validate:"len=2,alpha"`
}

// Level validates a body carrying levelNumber (start, retake)
func Level() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LevelRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("levelNumber", reqData.LevelNumber)
		return c.Next()
	}
}

// LevelQuery validates ?levelNumber= (result)
func LevelQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LevelRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("levelNumber", reqData.LevelNumber)
		return c.Next()
	}
}

// Submit validates the answers map; keys must be question ids
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		reqData.Parsed = make(map[uint]string, len(reqData.Answers))
		for key, answer := range reqData.Answers {
			id, err := strconv.ParseUint(key, 10, 64)
			if err != nil || id == 0 {
				errors["answers"] = "Answers must be keyed by question id!"
				break
			}
			reqData.Parsed[uint(id)] = strings.TrimSpace(answer)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// ImageQuiz validates the generated question request
func ImageQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ImageQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.Language = strings.ToLower(strings.TrimSpace(reqData.Language))
		if reqData.Language == "" {
			reqData.Language = "ar"
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedImageQuiz", reqData)
		return c.Next()
	}
}
