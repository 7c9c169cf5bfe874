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

type BookController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewBookController(db *gorm.DB) *BookController {
	return &BookController{DB: db, Validate: validator.New()}
}

// GET /api/books?page=&page_size=
func (h *BookController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := h.DB.WithContext(c.Context()).
		Model(&catalogoModel.BookModel{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar libros")
	}

	var books []catalogoModel.BookModel
	if err := h.DB.WithContext(c.Context()).
		Preload("Author").Preload("Owner").Preload("Genres").
		Order("book_title").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&books).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar libros")
	}

	out := make([]catalogoDTO.BookResponse, 0, len(books))
	for i := range books {
		out = append(out, catalogoDTO.ToBookResponse(&books[i]))
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"books":      out,
		"pagination": helper.BuildPagination(total, paging.Page, paging.PageSize),
	})
}

/*
=========================================================
CREATE
POST /api/books/create
El libro nace sin propietario (fondo común); la propiedad
solo se asigna por el flujo de biblioteca.
=========================================================
*/
func (h *BookController) Create(c *fiber.Ctx) error {
	var req catalogoDTO.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	published, err := req.ValidateBusinessRules()
	if err != nil {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida",
			fiber.Map{"book": err.Error()})
	}

	var m catalogoModel.BookModel
	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var author catalogoModel.AuthorModel
		if err := tx.First(&author, "author_id = ?", req.AuthorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "El autor indicado no existe.")
			}
			return err
		}

		var genres []catalogoModel.GenreModel
		if err := tx.Where("genre_id IN ?", req.GenreIDs).Find(&genres).Error; err != nil {
			return err
		}
		if len(genres) != len(req.GenreIDs) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Alguno de los géneros indicados no existe.")
		}

		m = req.ToModel(published)
		m.BookOwnerID = nil // sin propietario al crear
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Model(&m).Association("Genres").Replace(genres)
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		if isUniqueViolation(err) {
			return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Validación fallida",
				fiber.Map{"book_isbn": "Ya existe un libro con ese ISBN."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear libro")
	}
	return helper.JsonCreated(c, "Libro creado exitosamente.", m)
}

// POST /api/books/update/:id
func (h *BookController) Update(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.BookModel
	if err := h.DB.WithContext(c.Context()).First(&m, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Libro no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var req catalogoDTO.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	published, err := req.ValidateBusinessRules()
	if err != nil {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida",
			fiber.Map{"book": err.Error()})
	}

	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var genres []catalogoModel.GenreModel
		if err := tx.Where("genre_id IN ?", req.GenreIDs).Find(&genres).Error; err != nil {
			return err
		}
		if len(genres) != len(req.GenreIDs) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Alguno de los géneros indicados no existe.")
		}

		m.BookTitle = req.Title
		m.BookAuthorID = req.AuthorID
		m.BookPublishedDate = published
		m.BookISBN = req.ISBN
		m.BookPages = req.Pages
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return tx.Model(&m).Association("Genres").Replace(genres)
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		if isUniqueViolation(err) {
			return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Validación fallida",
				fiber.Map{"book_isbn": "Ya existe un libro con ese ISBN."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al actualizar libro")
	}
	return helper.JsonUpdated(c, "Libro actualizado exitosamente.", m)
}

// POST /api/books/delete/:id
func (h *BookController) Delete(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.BookModel
	if err := h.DB.WithContext(c.Context()).First(&m, "book_id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Libro no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return catalogoService.OnDeleteBook(tx, bookID)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al eliminar libro")
	}
	return helper.JsonDeleted(c, "Libro eliminado exitosamente.")
}
