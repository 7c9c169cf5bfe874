package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportesController "biblioteca_backend/internals/features/reportes/controller"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

// ReportesRoutes registra los reportes PDF.
func ReportesRoutes(api fiber.Router, db *gorm.DB) {
	authMw := authMiddleware.AuthMiddleware(db)
	ctrl := reportesController.NewReportController(db)

	api.Get("/users/:id/library/pdf", authMw, ctrl.UserLibraryPDF)
	api.Get("/books/report/pdf", authMw, ctrl.BooksReportPDF)
}
