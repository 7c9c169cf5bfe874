package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares registra la cadena base (orden importa: recovery primero).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
