package translationRoutes

import (
	"wordquest/catalog"
	translationController "wordquest/controllers/translation"
	levelValidator "wordquest/validators/level"
	translationValidator "wordquest/validators/translation"

	"github.com/gofiber/fiber/v2"
)

func SetupTranslationRoutes(app *fiber.App, cat catalog.Catalog) {
	translationGroup := app.Group("/translations")

	translationGroup.Get("/search", translationValidator.Search(), translationController.Search(cat))
	translationGroup.Get("/categories", translationController.GetCategories(cat))
	translationGroup.Get("/languages", translationController.GetLanguages(cat))
	translationGroup.Get("/:wordKey", translationValidator.WordKey(), levelValidator.Language(), translationController.GetTranslation(cat))
	translationGroup.Get("/:wordKey/all", translationValidator.WordKey(), translationController.GetAllTranslations(cat))
}
