package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bibliotecaRoute "biblioteca_backend/internals/features/biblioteca/route"
	catalogoRoute "biblioteca_backend/internals/features/catalogo/route"
	cuentasRoute "biblioteca_backend/internals/features/cuentas/route"
	externosRoute "biblioteca_backend/internals/features/externos/route"
	reportesRoute "biblioteca_backend/internals/features/reportes/route"
)

// SetupRoutes monta todas las features bajo /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	cuentasRoute.CuentasRoutes(api, db)
	catalogoRoute.CatalogoRoutes(api, db)
	bibliotecaRoute.BibliotecaRoutes(api, db)
	externosRoute.ExternosRoutes(api, db)
	reportesRoute.ReportesRoutes(api, db)
}
