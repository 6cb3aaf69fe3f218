package middleware

import (
	"errors"
	"log"

	"wordquest/services"

	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes the envelope: success, an optional message and the
// payload keys merged at the top level.
func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, payload fiber.Map) error {
	body := fiber.Map{"success": success}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(statusCode).JSON(body)
}

// SuccessResponse answers 200 with data under key
func SuccessResponse(c *fiber.Ctx, key string, data interface{}) error {
	return JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{key: data})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return JsonResponse(c, statusCode, false, message, nil)
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", fiber.Map{"errors": errors})
}

// StatusFor maps an engine error to its HTTP status
func StatusFor(err error) int {
	if errors.Is(err, services.ErrBadCredentials) {
		return fiber.StatusUnauthorized
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindPrerequisiteNotMet:
		return fiber.StatusForbidden
	case services.KindAlreadyExists:
		return fiber.StatusConflict
	case services.KindLimitReached:
		return fiber.StatusUnprocessableEntity
	case services.KindInvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ServiceError writes err with its mapped status. Internal failures are
// logged and answered with a generic message.
func ServiceError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return ErrorResponse(c, status, "Something went wrong, please try again later!")
	}
	return ErrorResponse(c, status, err.Error())
}
