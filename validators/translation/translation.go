package translationValidator

import (
	"strings"

	"wordquest/middleware"
	"wordquest/validators"

	"github.com/gofiber/fiber/v2"
)

type SearchQuery struct {
	Q    string `query:"q" validate:"required,min=1,max=100"`
	Lang string `query:"lang" validate:"len=2,alpha"`
}

// WordKey validates the :wordKey path parameter
func WordKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Params("wordKey"))
		if key == "" || len(key) > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"wordKey": "wordKey is required!",
			})
		}
		c.Locals("wordKey", key)
		return c.Next()
	}
}

// Search validates ?q= and ?lang=
func Search() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SearchQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}
		reqData.Q = strings.TrimSpace(reqData.Q)
		reqData.Lang = strings.ToLower(strings.TrimSpace(reqData.Lang))
		if reqData.Lang == "" {
			reqData.Lang = "en"
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSearch", reqData)
		return c.Next()
	}
}
