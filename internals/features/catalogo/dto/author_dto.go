package dto

import (
	"errors"
	"strings"
	"time"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

const dateLayout = "2006-01-02"

// adultAge: un autor debe ser mayor de edad a fecha de hoy.
const adultYears = 18

type CreateAuthorRequest struct {
	FirstName   string `json:"author_first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"author_last_name" validate:"required,min=2,max=100"`
	BirthDate   string `json:"author_birth_date" validate:"required"`
	Nationality string `json:"author_nationality" validate:"required,max=50"`
}

func (r *CreateAuthorRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Nationality = strings.TrimSpace(r.Nationality)
}

// ValidateBusinessRules aplica las reglas que el validador de struct no cubre:
// fecha válida, no futura, autor mayor de edad.
func (r CreateAuthorRequest) ValidateBusinessRules() (time.Time, error) {
	birth, err := time.Parse(dateLayout, r.BirthDate)
	if err != nil {
		return time.Time{}, errors.New("La fecha de nacimiento no es válida (AAAA-MM-DD).")
	}
	today := time.Now()
	if birth.After(today) {
		return time.Time{}, errors.New("La fecha de nacimiento no puede ser futura.")
	}
	if birth.AddDate(adultYears, 0, 0).After(today) {
		return time.Time{}, errors.New("El autor debe ser mayor de edad.")
	}
	return birth, nil
}

func (r CreateAuthorRequest) ToModel(birth time.Time) catalogoModel.AuthorModel {
	return catalogoModel.AuthorModel{
		AuthorFirstName:   r.FirstName,
		AuthorLastName:    r.LastName,
		AuthorBirthDate:   birth,
		AuthorNationality: r.Nationality,
	}
}

type UpdateAuthorRequest = CreateAuthorRequest
