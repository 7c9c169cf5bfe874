package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogoDTO "biblioteca_backend/internals/features/catalogo/dto"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	catalogoService "biblioteca_backend/internals/features/catalogo/service"
	helper "biblioteca_backend/internals/helpers"
)

type AuthorController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthorController(db *gorm.DB) *AuthorController {
	return &AuthorController{DB: db, Validate: validator.New()}
}

// GET /api/authors
func (h *AuthorController) List(c *fiber.Ctx) error {
	var authors []catalogoModel.AuthorModel
	if err := h.DB.WithContext(c.Context()).
		Order("author_last_name, author_first_name").
		Find(&authors).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar autores")
	}
	return helper.JsonOK(c, "OK", authors)
}

// POST /api/authors/create
func (h *AuthorController) Create(c *fiber.Ctx) error {
	var req catalogoDTO.CreateAuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	birth, err := req.ValidateBusinessRules()
	if err != nil {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida",
			fiber.Map{"author_birth_date": err.Error()})
	}

	m := req.ToModel(birth)
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Ya existe un autor con ese nombre.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear autor")
	}
	return helper.JsonCreated(c, "Autor creado exitosamente.", m)
}

// POST /api/authors/update/:id
func (h *AuthorController) Update(c *fiber.Ctx) error {
	authorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.AuthorModel
	if err := h.DB.WithContext(c.Context()).First(&m, "author_id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Autor no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var req catalogoDTO.UpdateAuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	birth, err := req.ValidateBusinessRules()
	if err != nil {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida",
			fiber.Map{"author_birth_date": err.Error()})
	}

	m.AuthorFirstName = req.FirstName
	m.AuthorLastName = req.LastName
	m.AuthorBirthDate = birth
	m.AuthorNationality = req.Nationality
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Ya existe un autor con ese nombre.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al actualizar autor")
	}
	return helper.JsonUpdated(c, "Autor actualizado exitosamente.", m)
}

// POST /api/authors/delete/:id
// Cascada: elimina también los libros dependientes del autor.
func (h *AuthorController) Delete(c *fiber.Ctx) error {
	authorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.AuthorModel
	if err := h.DB.WithContext(c.Context()).First(&m, "author_id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Autor no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return catalogoService.OnDeleteAuthor(tx, authorID)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al eliminar autor")
	}
	return helper.JsonDeleted(c, "Autor eliminado exitosamente.")
}
