// internals/features/cuentas/service/token_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"biblioteca_backend/internals/configs"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

// IssueTokenPair firma el par access/refresh para una cuenta.
func IssueTokenPair(cuenta *cuentasModel.CuentaModel) (access string, refresh string, err error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", "", errors.New("JWT_SECRET no está definido")
	}
	refreshSecret := strings.TrimSpace(configs.JWTRefreshSecret)
	if refreshSecret == "" {
		refreshSecret = secret
	}

	now := time.Now().UTC()

	accessClaims := jwt.MapClaims{
		"sub":  cuenta.CuentaID.String(),
		"role": cuenta.CuentaRole,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTTLDefault).Unix(),
	}
	if cuenta.CuentaUserID != nil {
		accessClaims["lector_id"] = cuenta.CuentaUserID.String()
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"sub": cuenta.CuentaID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refreshSecret))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
