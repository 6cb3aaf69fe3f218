package translationController

import (
	"wordquest/catalog"
	"wordquest/middleware"
	"wordquest/services"
	translationValidator "wordquest/validators/translation"

	"github.com/gofiber/fiber/v2"
)

// GetTranslation returns one word in ?lang=
func GetTranslation(cat catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := cat.Translation(c.UserContext(), c.Locals("wordKey").(string), c.Locals("lang").(string))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		if t == nil {
			return middleware.ServiceError(c, services.ErrTranslationNotFound)
		}
		return middleware.SuccessResponse(c, "translation", t)
	}
}

func GetAllTranslations(cat catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := cat.Translations(c.UserContext(), c.Locals("wordKey").(string))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		if len(list) == 0 {
			return middleware.ServiceError(c, services.ErrTranslationNotFound)
		}
		return middleware.SuccessResponse(c, "translations", list)
	}
}

func Search(cat catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedSearch").(*translationValidator.SearchQuery)

		results, err := cat.Search(c.UserContext(), reqData.Q, reqData.Lang)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "results", results)
	}
}

func GetCategories(cat catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := cat.Categories(c.UserContext())
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "categories", categories)
	}
}

func GetLanguages(cat catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		languages, err := cat.Languages(c.UserContext())
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "languages", languages)
	}
}
