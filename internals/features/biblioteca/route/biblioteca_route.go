package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bibliotecaController "biblioteca_backend/internals/features/biblioteca/controller"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

// BibliotecaRoutes registra la vista de biblioteca y el traspaso de libros.
// La autorización fina (biblioteca propia vs ajena) vive en policy, dentro del
// controlador; aquí solo se exige sesión.
func BibliotecaRoutes(api fiber.Router, db *gorm.DB) {
	authMw := authMiddleware.AuthMiddleware(db)
	ctrl := bibliotecaController.NewLibraryController(db)

	api.Get("/users/:id/library", authMw, ctrl.UserLibrary)
	api.Post("/users/:id/add-books", authMw, ctrl.AddBooks)
	api.Post("/users/:id/remove-books", authMw, ctrl.RemoveBooks)
}
