package dto

import (
	"strings"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

type CreateGenreRequest struct {
	Name        string `json:"genre_name" validate:"required,min=1,max=50"`
	Description string `json:"genre_description"`
}

func (r *CreateGenreRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateGenreRequest) ToModel() catalogoModel.GenreModel {
	return catalogoModel.GenreModel{
		GenreName:        r.Name,
		GenreDescription: r.Description,
	}
}

type UpdateGenreRequest = CreateGenreRequest

// PatchGenreRequest: actualización parcial vía el endpoint JSON
// POST /api/genres/:id/update (campos ausentes no se tocan).
type PatchGenreRequest struct {
	Name        *string `json:"genre_name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"genre_description"`
}

func (r *PatchGenreRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		r.Description = &v
	}
}
