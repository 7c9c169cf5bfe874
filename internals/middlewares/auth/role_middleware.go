package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "biblioteca_backend/internals/helpers/auth"
)

// RoleMiddlewareWithCustomError valida rol + mensaje de error custom
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helperAuth.LocalRole).(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: missing role information",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: tu rol no permite acceder a este recurso"
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message":  customForbiddenMessage,
			"redirect": "/",
		})
	}
}

// OnlyRoles: atajo para uso más limpio en las rutas
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
