package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	cuentasDTO "biblioteca_backend/internals/features/cuentas/dto"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
	cuentasService "biblioteca_backend/internals/features/cuentas/service"
	helper "biblioteca_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

/*
=========================================================
REGISTER
POST /api/auth/register
Crea lector + cuenta con rol Lectores en una transacción.
=========================================================
*/
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req cuentasDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	hashed, err := cuentasService.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al procesar la contraseña")
	}

	var cuenta cuentasModel.CuentaModel
	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		// Username global único
		var count int64
		if err := tx.Model(&cuentasModel.CuentaModel{}).
			Where("cuenta_username = ?", req.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "El nombre de usuario ya existe.")
		}

		lector := catalogoModel.UserModel{
			UserFirstName: req.FirstName,
			UserLastName:  req.LastName,
			UserAge:       req.Age,
			UserEmail:     req.Email,
		}
		if err := tx.Create(&lector).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "El correo ya está registrado.")
			}
			return err
		}

		cuenta = cuentasModel.CuentaModel{
			CuentaUsername: req.Username,
			CuentaPassword: hashed,
			CuentaRole:     constants.RoleLectores,
			CuentaUserID:   &lector.UserID,
			CuentaIsActive: true,
		}
		return tx.Create(&cuenta).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] register:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al crear la cuenta")
	}

	access, refresh, err := cuentasService.IssueTokenPair(&cuenta)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al emitir tokens")
	}

	return helper.JsonCreated(c, "Bienvenido "+req.FirstName+"! Tu cuenta ha sido creada exitosamente.", cuentasDTO.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Cuenta:       cuentasDTO.ToCuentaResponse(&cuenta),
	})
}

/*
=========================================================
LOGIN
POST /api/auth/login
=========================================================
*/
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req cuentasDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var cuenta cuentasModel.CuentaModel
	if err := h.DB.WithContext(c.Context()).
		Where("cuenta_username = ?", req.Username).First(&cuenta).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Credenciales inválidas.")
	}
	if !cuenta.CuentaIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Tu cuenta ha sido desactivada")
	}
	if err := cuentasService.CheckPasswordHash(cuenta.CuentaPassword, req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Credenciales inválidas.")
	}

	access, refresh, err := cuentasService.IssueTokenPair(&cuenta)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al emitir tokens")
	}

	return helper.JsonOK(c, "Bienvenido, "+cuenta.CuentaUsername+"!", cuentasDTO.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Cuenta:       cuentasDTO.ToCuentaResponse(&cuenta),
	})
}

/*
=========================================================
LOGOUT
POST /api/auth/logout  (requiere auth)
Invalida el token actual via blacklist.
=========================================================
*/
func (h *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals("raw_token").(string)
	if strings.TrimSpace(raw) == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	exp, _ := c.Locals("token_exp").(time.Time)
	if exp.IsZero() {
		exp = time.Now().Add(24 * time.Hour)
	}

	entry := cuentasModel.TokenBlacklistModel{
		TokenBlacklistToken:     raw,
		TokenBlacklistExpiredAt: exp,
	}
	if err := h.DB.WithContext(c.Context()).Create(&entry).Error; err != nil && !isUniqueViolation(err) {
		log.Println("[ERROR] logout blacklist:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al cerrar sesión")
	}

	return helper.JsonOK(c, "Has cerrado sesión exitosamente.", nil)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
