package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	bibliotecaDTO "biblioteca_backend/internals/features/biblioteca/dto"
	"biblioteca_backend/internals/features/biblioteca/policy"
	bibliotecaService "biblioteca_backend/internals/features/biblioteca/service"
	catalogoDTO "biblioteca_backend/internals/features/catalogo/dto"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	helper "biblioteca_backend/internals/helpers"
	authHelper "biblioteca_backend/internals/helpers/auth"
)

type LibraryController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewLibraryController(db *gorm.DB) *LibraryController {
	return &LibraryController{DB: db, Validate: validator.New()}
}

/*
=========================================================
VISTA DE BIBLIOTECA
GET /api/users/:id/library
Un Lector solo ve la suya; personal y view_all_libraries
ven cualquiera.
=========================================================
*/
func (h *LibraryController) UserLibrary(c *fiber.Ctx) error {
	targetUserID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
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

	owned, err := bibliotecaService.UserBooks(c.Context(), h.DB, targetUserID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al cargar la biblioteca")
	}
	available, err := bibliotecaService.AvailableBooks(c.Context(), h.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al cargar libros disponibles")
	}

	ownedOut := make([]catalogoDTO.BookResponse, 0, len(owned))
	for i := range owned {
		ownedOut = append(ownedOut, catalogoDTO.ToBookResponse(&owned[i]))
	}
	availableOut := make([]catalogoDTO.BookResponse, 0, len(available))
	for i := range available {
		availableOut = append(availableOut, catalogoDTO.ToBookResponse(&available[i]))
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"user": fiber.Map{
			"user_id":   user.UserID,
			"full_name": user.FullName(),
		},
		"books":           ownedOut,
		"available_books": availableOut,
		"can_manage":      policy.CanManageLibrary(actor),
	})
}

/*
=========================================================
AGREGAR LIBROS
POST /api/users/:id/add-books
La disponibilidad se re-verifica dentro de la transacción;
los libros que otro usuario tomó entre la selección y el
envío se reportan por título sin abortar el resto.
=========================================================
*/
func (h *LibraryController) AddBooks(c *fiber.Ctx) error {
	targetUserID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanAccessLibrary(actor, targetUserID) {
		return helper.JsonDenied(c, constants.ErrNoLibraryAccess)
	}

	var req bibliotecaDTO.TransferBooksRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	actorID := actor.CuentaID
	result, err := bibliotecaService.AddBooks(c.Context(), h.DB, &actorID, targetUserID, req.BookIDs)
	if err != nil {
		switch {
		case errors.Is(err, bibliotecaService.ErrUserNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado.")
		case errors.Is(err, bibliotecaService.ErrBookNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Libro no encontrado.")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Error al agregar libros")
		}
	}

	msg := fmt.Sprintf("Se agregaron %d libro(s) a la biblioteca.", result.Added)
	if len(result.NotAvailable) > 0 {
		msg += " Ya no estaban disponibles: " + strings.Join(result.NotAvailable, ", ") + "."
	}
	return helper.JsonOK(c, msg, bibliotecaDTO.AddBooksResponse{
		Added:        result.Added,
		NotAvailable: result.NotAvailable,
		Message:      msg,
	})
}

/*
=========================================================
QUITAR LIBROS
POST /api/users/:id/remove-books
Solo gestión de bibliotecas (personal o manage_library).
=========================================================
*/
func (h *LibraryController) RemoveBooks(c *fiber.Ctx) error {
	targetUserID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	actor, ok := authHelper.ActorFromContext(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusUnauthorized, "No autenticado")
	}
	if !policy.CanManageLibrary(actor) {
		return helper.JsonDenied(c, constants.ErrNoLibraryManagement)
	}

	var req bibliotecaDTO.TransferBooksRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	actorID := actor.CuentaID
	result, err := bibliotecaService.RemoveBooks(c.Context(), h.DB, &actorID, targetUserID, req.BookIDs)
	if err != nil {
		if errors.Is(err, bibliotecaService.ErrUserNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al quitar libros")
	}

	msg := fmt.Sprintf("Se quitaron %d libro(s) de la biblioteca.", result.Removed)
	return helper.JsonOK(c, msg, bibliotecaDTO.RemoveBooksResponse{
		Removed: result.Removed,
		Message: msg,
	})
}
