// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"biblioteca_backend/internals/configs"
	"biblioteca_backend/internals/constants"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
	helperAuth "biblioteca_backend/internals/helpers/auth"
)

// AuthMiddleware valida el JWT de acceso, consulta la blacklist y deja en
// Locals la identidad resuelta (cuenta, rol, capacidades, lector enlazado).
// El rol se resuelve UNA vez por request; las funciones de política lo reciben
// como parámetro explícito.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// Blacklist (una vez por request)
		if c.Locals("token_checked") == nil {
			var existing cuentasModel.TokenBlacklistModel
			err := db.Where("token_blacklist_token = ?", tokenString).First(&existing).Error
			if err == nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token revocado")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("[ERROR] DB error en blacklist:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			c.Locals("token_checked", true)
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET vacío")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("método de firma inesperado")
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - token inválido")
		}

		cuentaID, err := extractCuentaID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - cuenta inválida")
		}

		// Cuenta activa + rol/capacidades frescos desde la DB (no del token,
		// así los cambios de permisos aplican de inmediato)
		var cuenta cuentasModel.CuentaModel
		if err := db.Where("cuenta_id = ?", cuentaID).First(&cuenta).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - cuenta no encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if !cuenta.CuentaIsActive {
			return fiber.NewError(fiber.StatusForbidden, "Tu cuenta ha sido desactivada")
		}

		caps := append([]string{}, constants.DefaultCapabilities[cuenta.CuentaRole]...)
		caps = append(caps, cuenta.CapabilityList()...)

		c.Locals(helperAuth.LocalCuentaID, cuenta.CuentaID.String())
		c.Locals(helperAuth.LocalRole, cuenta.CuentaRole)
		c.Locals(helperAuth.LocalCaps, caps)
		if cuenta.CuentaUserID != nil {
			c.Locals(helperAuth.LocalLectorID, cuenta.CuentaUserID.String())
		}
		c.Locals("raw_token", tokenString)
		c.Locals("token_exp", tokenExpiry(claims))

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return strings.TrimSpace(parts[1]), nil
		}
		return "", errors.New("Unauthorized - formato de Authorization inválido")
	}
	if cookie := strings.TrimSpace(c.Cookies("access_token")); cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Unauthorized - falta el token")
}

func extractCuentaID(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}

func tokenExpiry(claims jwt.MapClaims) time.Time {
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Now().Add(24 * time.Hour)
}
