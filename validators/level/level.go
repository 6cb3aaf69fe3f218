package levelValidator

import (
	"strconv"
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

const defaultLanguage = "en"

type WordRequest struct {
	WordKey string `json:"wordKey" validate:"required,max=100"`
}

type LanguageQuery struct {
	Lang string `query:"lang" validate:"len=2,alpha"`
}

// LevelParam validates the :level path parameter and stores it as "levelNumber"
func LevelParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Params("level"))
		if err != nil || level < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"level": "Level must be a positive number!",
			})
		}
		c.Locals("levelNumber", level)
		return c.Next()
	}
}

// Language validates the optional ?lang= query, defaulting to English
func Language() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LanguageQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}
		reqData.Lang = strings.ToLower(strings.TrimSpace(reqData.Lang))
		if reqData.Lang == "" {
			reqData.Lang = defaultLanguage
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lang", reqData.Lang)
		return c.Next()
	}
}

// Word validates the body of complete-word and master-word
func Word() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(WordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}
		reqData.WordKey = strings.TrimSpace(reqData.WordKey)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWord", reqData)
		return c.Next()
	}
}
