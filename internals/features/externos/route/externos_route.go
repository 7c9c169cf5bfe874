package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	externosController "biblioteca_backend/internals/features/externos/controller"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

// ExternosRoutes registra la búsqueda e importación desde Open Library.
func ExternosRoutes(api fiber.Router, db *gorm.DB) {
	authMw := authMiddleware.AuthMiddleware(db)
	ctrl := externosController.NewExternalController(db)

	api.Get("/search-external-books", authMw, ctrl.SearchExternalBooks)
	api.Get("/import-external-book/:isbn", authMw, ctrl.ImportExternalBook)
}
