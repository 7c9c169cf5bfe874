package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

type CreateBookRequest struct {
	Title         string      `json:"book_title" validate:"required,min=2,max=200"`
	AuthorID      uuid.UUID   `json:"book_author_id" validate:"required"`
	PublishedDate string      `json:"book_published_date" validate:"required"`
	ISBN          *string     `json:"book_isbn"`
	Pages         int         `json:"book_pages" validate:"required,gt=0"`
	GenreIDs      []uuid.UUID `json:"genre_ids" validate:"required,min=1"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.PublishedDate = strings.TrimSpace(r.PublishedDate)
	if r.ISBN != nil {
		v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(*r.ISBN), "-", ""))
		if v == "" {
			r.ISBN = nil
		} else {
			r.ISBN = &v
		}
	}
}

// ValidateBusinessRules: fecha no futura, ISBN de 10 o 13 caracteres.
func (r CreateBookRequest) ValidateBusinessRules() (time.Time, error) {
	published, err := time.Parse(dateLayout, r.PublishedDate)
	if err != nil {
		return time.Time{}, errors.New("La fecha de publicación no es válida (AAAA-MM-DD).")
	}
	if published.After(time.Now()) {
		return time.Time{}, errors.New("La fecha de publicación no puede ser futura.")
	}
	if r.ISBN != nil {
		if l := len(*r.ISBN); l != 10 && l != 13 {
			return time.Time{}, errors.New("El ISBN debe tener 10 o 13 caracteres.")
		}
	}
	return published, nil
}

func (r CreateBookRequest) ToModel(published time.Time) catalogoModel.BookModel {
	return catalogoModel.BookModel{
		BookTitle:         r.Title,
		BookAuthorID:      r.AuthorID,
		BookPublishedDate: published,
		BookISBN:          r.ISBN,
		BookPages:         r.Pages,
	}
}

type UpdateBookRequest = CreateBookRequest

type BookResponse struct {
	BookID        string   `json:"book_id"`
	Title         string   `json:"book_title"`
	AuthorName    string   `json:"author_name"`
	OwnerID       *string  `json:"owner_id,omitempty"`
	PublishedDate string   `json:"published_date"`
	ISBN          *string  `json:"isbn,omitempty"`
	Pages         int      `json:"pages"`
	Genres        []string `json:"genres"`
}

func ToBookResponse(b *catalogoModel.BookModel) BookResponse {
	resp := BookResponse{
		BookID:        b.BookID.String(),
		Title:         b.BookTitle,
		AuthorName:    b.Author.FullName(),
		PublishedDate: b.BookPublishedDate.Format(dateLayout),
		ISBN:          b.BookISBN,
		Pages:         b.BookPages,
		Genres:        make([]string, 0, len(b.Genres)),
	}
	if b.BookOwnerID != nil {
		s := b.BookOwnerID.String()
		resp.OwnerID = &s
	}
	for _, g := range b.Genres {
		resp.Genres = append(resp.Genres, g.GenreName)
	}
	return resp
}
