package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/constants"
	cuentasDTO "biblioteca_backend/internals/features/cuentas/dto"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
	helper "biblioteca_backend/internals/helpers"
)

/*
=========================================================
PERMISOS (solo Administradores)
POST /api/users/:id/permissions
Reasigna rol y capacidades de la cuenta enlazada al lector :id.
=========================================================
*/
func (h *AuthController) UpdatePermissions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identificador inválido")
	}

	var req cuentasDTO.UpdatePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if !constants.IsValidRole(req.Role) {
		return helper.JsonErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validación fallida",
			fiber.Map{"role": "Rol desconocido."})
	}

	var cuenta cuentasModel.CuentaModel
	if err := h.DB.WithContext(c.Context()).
		Where("cuenta_user_id = ?", userID).First(&cuenta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Este usuario no tiene acceso al sistema.")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	cuenta.CuentaRole = req.Role
	cuenta.SetCapabilities(req.Capabilities)
	if err := h.DB.WithContext(c.Context()).
		Model(&cuentasModel.CuentaModel{}).
		Where("cuenta_id = ?", cuenta.CuentaID).
		Updates(map[string]interface{}{
			"cuenta_role":         cuenta.CuentaRole,
			"cuenta_capabilities": cuenta.CuentaCapabilities,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Error al actualizar permisos")
	}

	return helper.JsonUpdated(c, "Permisos actualizados para "+cuenta.CuentaUsername,
		cuentasDTO.ToCuentaResponse(&cuenta))
}
