package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	cuentasController "biblioteca_backend/internals/features/cuentas/controller"
	"biblioteca_backend/internals/middlewares"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

// CuentasRoutes registra autenticación y gestión de permisos.
func CuentasRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := cuentasController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)

	// Reasignación de rol/capacidades: solo Administradores
	api.Post("/users/:id/permissions",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleError("gestión de permisos"), constants.AdminOnly...),
		ctrl.UpdatePermissions,
	)
}
