package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	catalogoController "biblioteca_backend/internals/features/catalogo/controller"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

// CatalogoRoutes registra el CRUD de usuarios, autores, géneros y libros.
// Las listas y el alta de géneros quedan para cualquier cuenta autenticada;
// el resto de escrituras exige rol de personal (usuarios solo Administradores).
func CatalogoRoutes(api fiber.Router, db *gorm.DB) {
	authMw := authMiddleware.AuthMiddleware(db)
	staffOnly := authMiddleware.OnlyRoles(
		constants.RoleError("gestión del catálogo"), constants.StaffRoles...)
	adminOnly := authMiddleware.OnlyRoles(
		constants.RoleError("gestión de usuarios"), constants.AdminOnly...)

	users := catalogoController.NewUserController(db)
	api.Get("/users", authMw, staffOnly, users.List)
	api.Post("/users/create", authMw, adminOnly, users.Create)
	api.Post("/users/update/:id", authMw, adminOnly, users.Update)
	api.Post("/users/delete/:id", authMw, adminOnly, users.Delete)

	authors := catalogoController.NewAuthorController(db)
	api.Get("/authors", authMw, authors.List)
	api.Post("/authors/create", authMw, staffOnly, authors.Create)
	api.Post("/authors/update/:id", authMw, staffOnly, authors.Update)
	api.Post("/authors/delete/:id", authMw, staffOnly, authors.Delete)

	genres := catalogoController.NewGenreController(db)
	api.Get("/genres", authMw, genres.List)
	api.Post("/genres/create", authMw, genres.Create)
	api.Post("/genres/update/:id", authMw, staffOnly, genres.Update)
	api.Post("/genres/delete/:id", authMw, staffOnly, genres.Delete)
	api.Post("/genres/:id/update", authMw, staffOnly, genres.UpdateGenreAPI)

	books := catalogoController.NewBookController(db)
	api.Get("/books", authMw, books.List)
	api.Post("/books/create", authMw, staffOnly, books.Create)
	api.Post("/books/update/:id", authMw, staffOnly, books.Update)
	api.Post("/books/delete/:id", authMw, staffOnly, books.Delete)
}
