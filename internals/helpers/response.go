package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Envelope uniforme: {code, status, message, data|errors}

func JsonOK(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusOK, message, data)
}

func JsonCreated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusCreated, message, data)
}

func JsonUpdated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonSuccess(c, fiber.StatusOK, message, data)
}

func JsonDeleted(c *fiber.Ctx, message string) error {
	return jsonSuccess(c, fiber.StatusOK, message, nil)
}

func jsonSuccess(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

func JsonErrorWithDetails(c *fiber.Ctx, code int, message string, details interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  details,
	})
}

// JsonDenied responde 403 con el mensaje visible y una pista de redirección a la
// vista segura por defecto (equivalente JSON del patrón mensaje+redirect).
func JsonDenied(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"code":     fiber.StatusForbidden,
		"status":   "error",
		"message":  message,
		"redirect": "/",
	})
}

// JsonValidationError mapea errores de validator.v10 a mensajes por campo (422).
func JsonValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusUnprocessableEntity, "Entrada inválida")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida", errorsMap)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio."
	case "email":
		return "Debe ser un correo electrónico válido."
	case "min":
		return "Valor por debajo del mínimo permitido (" + fe.Param() + ")."
	case "max":
		return "Valor por encima del máximo permitido (" + fe.Param() + ")."
	case "gt":
		return "Debe ser mayor que " + fe.Param() + "."
	case "gte":
		return "Debe ser mayor o igual que " + fe.Param() + "."
	default:
		return "Valor inválido (" + fe.Tag() + ")."
	}
}
