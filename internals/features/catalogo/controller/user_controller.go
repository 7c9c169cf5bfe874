package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	catalogoDTO "biblioteca_backend/internals/features/catalogo/dto"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	catalogoService "biblioteca_backend/internals/features/catalogo/service"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
	helper "biblioteca_backend/internals/helpers"
	helperAuth "biblioteca_backend/internals/helpers/auth"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

/*
=========================================================
LIST (home)
GET /api/users
Lista lectores ordenados por apellido, con contexto de rol
para el frontend (equivalente JSON de la página principal).
=========================================================
*/
func (h *UserController) List(c *fiber.Ctx) error {
	var users []catalogoModel.UserModel
	if err := h.DB.WithContext(c.Context()).
		Order("user_last_name, user_first_name").
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar usuarios")
	}

	// cuentas enlazadas, para anotar has_cuenta/rol por lector
	var cuentas []cuentasModel.CuentaModel
	if err := h.DB.WithContext(c.Context()).
		Where("cuenta_user_id IS NOT NULL").
		Find(&cuentas).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al listar usuarios")
	}
	roleByUser := make(map[uuid.UUID]string, len(cuentas))
	for _, cta := range cuentas {
		if cta.CuentaUserID != nil {
			roleByUser[*cta.CuentaUserID] = cta.CuentaRole
		}
	}

	out := make([]catalogoDTO.UserResponse, 0, len(users))
	authCount := 0
	for _, u := range users {
		role, linked := roleByUser[u.UserID]
		if linked {
			authCount++
		}
		out = append(out, catalogoDTO.UserResponse{
			UserID:    u.UserID.String(),
			FirstName: u.UserFirstName,
			LastName:  u.UserLastName,
			Age:       u.UserAge,
			Email:     u.UserEmail,
			HasCuenta: linked,
			Role:      role,
		})
	}

	actor, _ := helperAuth.ActorFromContext(c)
	return helper.JsonOK(c, "OK", fiber.Map{
		"users":        out,
		"auth_count":   authCount,
		"is_admin":     actor.Role == constants.RoleAdministradores,
		"is_librarian": actor.Role == constants.RoleAdministradores || actor.Role == constants.RoleBibliotecarios,
	})
}

/*
=========================================================
CREATE
POST /api/users/create
=========================================================
*/
func (h *UserController) Create(c *fiber.Ctx) error {
	var req catalogoDTO.CreateUserRequest
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
				fiber.Map{"user_email": "El correo ya está registrado."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear usuario")
	}
	return helper.JsonCreated(c, "Usuario "+m.UserFirstName+" creado exitosamente (solo biblioteca).", m)
}

/*
=========================================================
UPDATE
POST /api/users/update/:id
=========================================================
*/
func (h *UserController) Update(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.UserModel
	if err := h.DB.WithContext(c.Context()).First(&m, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var req catalogoDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m.UserFirstName = req.FirstName
	m.UserLastName = req.LastName
	m.UserAge = req.Age
	m.UserEmail = req.Email
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonErrorWithDetails(c, fiber.StatusConflict, "Validación fallida",
				fiber.Map{"user_email": "El correo ya está registrado."})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al actualizar usuario")
	}
	return helper.JsonUpdated(c, "Usuario actualizado exitosamente.", m)
}

/*
=========================================================
DELETE
POST /api/users/delete/:id
Los libros del lector vuelven al fondo común (owner NULL).
=========================================================
*/
func (h *UserController) Delete(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var m catalogoModel.UserModel
	if err := h.DB.WithContext(c.Context()).First(&m, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Usuario no encontrado.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		return catalogoService.OnDeleteUser(tx, userID)
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al eliminar usuario")
	}
	return helper.JsonDeleted(c, "Usuario eliminado exitosamente.")
}
