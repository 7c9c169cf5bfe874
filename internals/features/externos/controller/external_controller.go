package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	"biblioteca_backend/internals/features/biblioteca/policy"
	externosService "biblioteca_backend/internals/features/externos/service"
	helper "biblioteca_backend/internals/helpers"
	authHelper "biblioteca_backend/internals/helpers/auth"
)

type ExternalController struct {
	DB       *gorm.DB
	OL       *externosService.OpenLibraryService
	Importer *externosService.ImportService
}

func NewExternalController(db *gorm.DB) *ExternalController {
	return &ExternalController{
		DB:       db,
		OL:       externosService.NewOpenLibraryService(),
		Importer: externosService.NewImportService(db),
	}
}

/*
=========================================================
BÚSQUEDA EXTERNA
GET /api/search-external-books?q=&page=&page_size=
Una falla del proveedor responde 200 con warning y lista
vacía: la vista de búsqueda sigue siendo usable.
=========================================================
*/
func (h *ExternalController) SearchExternalBooks(c *fiber.Ctx) error {
	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanImportBooks(actor) {
		return helper.JsonDenied(c, constants.ErrNoImportAccess)
	}

	query := strings.TrimSpace(c.Query("q"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.OL.SearchBooks(query, page, pageSize)
	if err != nil {
		if errors.Is(err, externosService.ErrExternalProvider) {
			log.Printf("⚠️ Open Library no disponible: %v", err)
			return helper.JsonOK(c, "OK", fiber.Map{
				"books":   []externosService.ExternalBook{},
				"total":   0,
				"warning": "El servicio externo no está disponible en este momento. Intenta más tarde.",
			})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al buscar libros externos")
	}

	out := fiber.Map{
		"books":     result.Books,
		"total":     result.Total,
		"page":      result.Page,
		"page_size": result.PageSize,
	}
	// contexto de destino para el flujo "buscar desde una biblioteca"
	if ownerID := strings.TrimSpace(c.Query("owner_id")); ownerID != "" {
		out["owner_id"] = ownerID
	}
	return helper.JsonOK(c, "OK", out)
}

/*
=========================================================
IMPORTACIÓN
GET /api/import-external-book/:isbn?title=&author=&owner_id=
Con isbn real se consulta la edición al proveedor; con el
marcador "no-isbn" se importa solo con los parámetros de
la fila de búsqueda (title/author).
=========================================================
*/
func (h *ExternalController) ImportExternalBook(c *fiber.Ctx) error {
	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanImportBooks(actor) {
		return helper.JsonDenied(c, constants.ErrNoImportAccess)
	}

	isbn := strings.TrimSpace(c.Params("isbn"))
	title := strings.TrimSpace(c.Query("title"))
	authorName := strings.TrimSpace(c.Query("author"))

	var ownerID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("owner_id")); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "owner_id inválido")
		}
		ownerID = &parsed
	}

	req := externosService.ImportRequest{
		Title:   title,
		Author:  authorName,
		OwnerID: ownerID,
	}

	if isbn != "" && isbn != "no-isbn" {
		edition, err := h.OL.GetBookByISBN(isbn)
		if err != nil {
			if errors.Is(err, externosService.ErrExternalProvider) {
				log.Printf("⚠️ Open Library no disponible: %v", err)
				return helper.JsonOK(c, "OK", fiber.Map{
					"imported": false,
					"warning":  "No se pudo consultar el servicio externo. No se importó nada.",
				})
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Error al consultar el libro externo")
		}
		if edition.Title != "" {
			req.Title = edition.Title
		}
		if len(edition.Authors) > 0 && req.Author == "" {
			req.Author = edition.Authors[0]
		}
		req.Year = edition.Year
		req.ISBN = edition.ISBN
		req.Pages = edition.Pages
		req.Genres = edition.Subjects
	}

	if req.Title == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Falta el título del libro a importar")
	}

	book, err := h.Importer.ImportRecord(c.Context(), req)
	if err != nil {
		if errors.Is(err, externosService.ErrDuplicateBook) {
			return helper.JsonOK(c, "OK", fiber.Map{
				"imported": false,
				"warning":  "El libro \"" + req.Title + "\" ya existe en el catálogo.",
				"book":     book, // referencia al existente
			})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al importar el libro")
	}

	return helper.JsonCreated(c, "Libro \""+book.BookTitle+"\" importado exitosamente.", fiber.Map{
		"imported": true,
		"book":     book,
	})
}
