package dto

import (
	"strings"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

/* =========================================================
   USER (lector)
   ========================================================= */

type CreateUserRequest struct {
	FirstName string `json:"user_first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"user_last_name" validate:"required,min=2,max=100"`
	Age       int    `json:"user_age" validate:"gte=0,lte=100"`
	Email     string `json:"user_email" validate:"required,email,max=255"`
}

func (r *CreateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r CreateUserRequest) ToModel() catalogoModel.UserModel {
	return catalogoModel.UserModel{
		UserFirstName: r.FirstName,
		UserLastName:  r.LastName,
		UserAge:       r.Age,
		UserEmail:     r.Email,
	}
}

type UpdateUserRequest = CreateUserRequest

type UserResponse struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"user_first_name"`
	LastName  string `json:"user_last_name"`
	Age       int    `json:"user_age"`
	Email     string `json:"user_email"`
	HasCuenta bool   `json:"has_cuenta"`
	Role      string `json:"role,omitempty"`
}
