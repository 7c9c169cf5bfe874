package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	"biblioteca_backend/internals/features/biblioteca/policy"
	bibliotecaService "biblioteca_backend/internals/features/biblioteca/service"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	reportesService "biblioteca_backend/internals/features/reportes/service"
	helper "biblioteca_backend/internals/helpers"
	authHelper "biblioteca_backend/internals/helpers/auth"
)

type ReportController struct {
	DB     *gorm.DB
	Signer *reportesService.SignatureService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, Signer: reportesService.NewSignatureService()}
}

/*
=========================================================
REPORTE DE BIBLIOTECA PERSONAL
GET /api/users/:id/library/pdf
Biblioteca vacía responde JSON con warning en vez de un
PDF sin filas.
=========================================================
*/
func (h *ReportController) UserLibraryPDF(c *fiber.Ctx) error {
	targetUserID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanGenerateReports(actor) {
		return helper.JsonDenied(c, constants.ErrNoReportAccess)
	}
	if !policy.CanAccessLibrary(actor, targetUserID) {
		return helper.JsonDenied(c, constants.ErrNoLibraryAccess)
	}

	var user catalogoModel.UserModel
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	books, err := bibliotecaService.UserBooks(c.Context(), h.DB, targetUserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al cargar la biblioteca")
	}
	if len(books) == 0 {
		return helper.JsonOK(c, "OK", fiber.Map{
			"warning": "La biblioteca de " + user.FullName() + " está vacía; no hay nada que reportar.",
		})
	}

	pdf, err := reportesService.BuildBooksPDF("Biblioteca de "+user.FullName(), books)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al generar el PDF")
	}

	filename := "biblioteca_" + sanitizeFilename(user.FullName()) + ".pdf"
	return h.servePDF(c, pdf, filename)
}

/*
=========================================================
REPORTE GENERAL DE LIBROS
GET /api/books/report/pdf
Solo personal o generate_reports.
=========================================================
*/
func (h *ReportController) BooksReportPDF(c *fiber.Ctx) error {
	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanGenerateReports(actor) {
		return helper.JsonDenied(c, constants.ErrNoReportAccess)
	}

	var books []catalogoModel.BookModel
	if err := h.DB.WithContext(c.Context()).
		Preload("Author").Preload("Genres").
		Order("book_title").
		Find(&books).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al cargar libros")
	}

	pdf, err := reportesService.BuildBooksPDF("Reporte general de libros", books)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al generar el PDF")
	}
	return h.servePDF(c, pdf, "reporte_libros.pdf")
}

// servePDF firma cuando se puede; si la firma falla el PDF sale sin firmar,
// nunca se bloquea la descarga por un problema criptográfico.
func (h *ReportController) servePDF(c *fiber.Ctx, pdf []byte, filename string) error {
	signed, err := h.Signer.SignPDF(pdf)
	if err != nil {
		log.Printf("⚠️ No se pudo firmar el reporte: %v (se envía sin firma)", err)
		signed = pdf
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(signed)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", "\"", "", "'", "")
	return replacer.Replace(name)
}
