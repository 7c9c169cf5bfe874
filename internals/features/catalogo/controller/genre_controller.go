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

type GenreController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewGenreController(db *gorm.DB) *GenreController {
	return &GenreController{DB: db, Validate: validator.New()}
}

// GET /api/genres
func (h *GenreController) List(c *fiber.Ctx) error {
	var genres []catalogoModel.GenreModel
	if err := h.DB.WithContext(c.Context()).
		Order("genre_name").
		Find(&genres).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar géneros")
	}
	return helper.JsonOK(c, "OK", genres)
}

// POST /api/genres/create
func (h *GenreController) Create(c *fiber.Ctx) error {
	var req catalogoDTO.CreateGenreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Validación fallida",
				fiber.Map{"genre_name": "Ya existe un género con este nombre."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear género")
	}
	return helper.JsonCreated(c, "Género creado exitosamente.", m)
}

// POST /api/genres/update/:id
func (h *GenreController) Update(c *fiber.Ctx) error {
	genreID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.GenreModel
	if err := h.DB.WithContext(c.Context()).First(&m, "genre_id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Género no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var req catalogoDTO.UpdateGenreRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m.GenreName = req.Name
	m.GenreDescription = req.Description
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Validación fallida",
				fiber.Map{"genre_name": "Ya existe un género con este nombre."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al actualizar género")
	}
	return helper.JsonUpdated(c, "Género actualizado exitosamente.", m)
}

// POST /api/genres/delete/:id
func (h *GenreController) Delete(c *fiber.Ctx) error {
	genreID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.GenreModel
	if err := h.DB.WithContext(c.Context()).First(&m, "genre_id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Género no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return catalogoService.OnDeleteGenre(tx, genreID)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al eliminar género")
	}
	return helper.JsonDeleted(c, "Género eliminado exitosamente.")
}

/*
=========================================================
API JSON de actualización parcial
POST /api/genres/:id/update
Respuesta con forma {success, message|errors} para el
widget de edición en línea.
=========================================================
*/
func (h *GenreController) UpdateGenreAPI(c *fiber.Ctx) error {
	genreID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  fiber.Map{"id": "Identificador inválido"},
		})
	}

	var m catalogoModel.GenreModel
	if err := h.DB.WithContext(c.Context()).First(&m, "genre_id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"errors":  fiber.Map{"id": "Género no encontrado."},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"errors":  fiber.Map{"db": "Internal Server Error"},
		})
	}

	var req catalogoDTO.PatchGenreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  fiber.Map{"body": "Payload inválido"},
		})
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(fiber.Map{
			"success": false,
			"errors":  fiber.Map{"genre_name": "El nombre no es válido."},
		})
	}

	// Unicidad de nombre excluyendo el propio registro
	if req.Name != nil {
		var count int64
		if err := h.DB.WithContext(c.Context()).Model(&catalogoModel.GenreModel{}).
			Where("genre_name = ? AND genre_id <> ?", *req.Name, genreID).
			Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"errors":  fiber.Map{"db": "Internal Server Error"},
			})
		}
		if count > 0 {
			return c.JSON(fiber.Map{
				"success": false,
				"errors":  fiber.Map{"genre_name": "Ya existe un género con este nombre."},
			})
		}
		m.GenreName = *req.Name
	}
	if req.Description != nil {
		m.GenreDescription = *req.Description
	}

	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"errors":  fiber.Map{"db": "Error al actualizar género"},
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Género \"" + m.GenreName + "\" actualizado correctamente",
		"genre":   m,
	})
}
