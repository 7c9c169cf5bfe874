package dto

import (
	"strings"

	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
)

/* =========================================================
   REGISTER / LOGIN
   ========================================================= */

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Age       int    `json:"age" validate:"gte=0,lte=100"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

/* =========================================================
   PERMISOS (solo administradores)
   ========================================================= */

type UpdatePermissionsRequest struct {
	Role         string   `json:"role" validate:"required"`
	Capabilities []string `json:"capabilities"`
}

func (r *UpdatePermissionsRequest) Normalize() {
	r.Role = strings.TrimSpace(r.Role)
	out := r.Capabilities[:0]
	for _, c := range r.Capabilities {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	r.Capabilities = out
}

/* =========================================================
   RESPONSES
   ========================================================= */

type CuentaResponse struct {
	CuentaID     string   `json:"cuenta_id"`
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	UserID       *string  `json:"user_id,omitempty"`
}

func ToCuentaResponse(m *cuentasModel.CuentaModel) CuentaResponse {
	resp := CuentaResponse{
		CuentaID:     m.CuentaID.String(),
		Username:     m.CuentaUsername,
		Role:         m.CuentaRole,
		Capabilities: m.CapabilityList(),
	}
	if m.CuentaUserID != nil {
		s := m.CuentaUserID.String()
		resp.UserID = &s
	}
	return resp
}

type TokenPairResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Cuenta       CuentaResponse `json:"cuenta"`
}
