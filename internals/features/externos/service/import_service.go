package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

/* =========================================================
   Centinelas de importación
   ========================================================= */

// Valores fijos cuando el proveedor no trae el dato.
var (
	SentinelPublishDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	SentinelBirthDate   = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const (
	SentinelPages       = 100
	SentinelNationality = "N/D"
	SentinelName        = "N/A"
	maxTitleLen         = 200
	maxGenres           = 5
	maxGenreLen         = 50
)

// ErrDuplicateBook: el libro ya existe en el catálogo; la importación no
// escribe nada y devuelve el existente.
var ErrDuplicateBook = errors.New("el libro ya existe en el catálogo")

/* =========================================================
   Deduplicación
   ========================================================= */

// DuplicateMatcher localiza un libro del catálogo equivalente al candidato a
// importar, o nil si no hay. Es un puerto para poder endurecer la heurística
// sin tocar el flujo de importación.
type DuplicateMatcher interface {
	Find(tx *gorm.DB, title, author string, isbn *string) (*catalogoModel.BookModel, error)
}

// LooseMatcher replica la heurística histórica tal cual: mismo ISBN, o título
// exacto (sin distinguir mayúsculas) confirmado porque el NOMBRE del autor
// contiene el último token del nombre suministrado. La confirmación contra el
// nombre de pila y no el apellido es un defecto conocido del comportamiento
// histórico que se conserva a propósito: puede dejar pasar duplicados reales,
// nunca traga libros distintos con el mismo título de otro autor.
type LooseMatcher struct{}

func (LooseMatcher) Find(tx *gorm.DB, title, author string, isbn *string) (*catalogoModel.BookModel, error) {
	if isbn != nil && *isbn != "" {
		var book catalogoModel.BookModel
		err := tx.Preload("Author").First(&book, "book_isbn = ?", *isbn).Error
		if err == nil {
			return &book, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return nil, nil
	}
	var candidates []catalogoModel.BookModel
	if err := tx.Preload("Author").
		Where("LOWER(book_title) = ?", needle).
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	surname := ""
	if parts := strings.Fields(strings.TrimSpace(author)); len(parts) > 0 {
		surname = strings.ToLower(parts[len(parts)-1])
	}
	for i := range candidates {
		if surname == "" ||
			strings.Contains(strings.ToLower(candidates[i].Author.AuthorFirstName), surname) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

/* =========================================================
   Importación
   ========================================================= */

type ImportService struct {
	DB      *gorm.DB
	Matcher DuplicateMatcher
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{DB: db, Matcher: LooseMatcher{}}
}

// ImportRequest es un registro externo ya resuelto más el destino opcional.
type ImportRequest struct {
	Title   string
	Author  string
	Year    *int
	ISBN    *string
	Pages   *int
	Genres  []string
	OwnerID *uuid.UUID
}

// ImportRecord materializa un registro externo como libro del catálogo en una
// sola transacción: dedup, get-or-create de autor, géneros acotados y alta del
// libro. Cualquier falla revierte todo; nunca quedan escrituras parciales. Un
// duplicado devuelve el libro existente junto con ErrDuplicateBook.
func (s *ImportService) ImportRecord(ctx context.Context, req ImportRequest) (*catalogoModel.BookModel, error) {
	title := truncateRunes(strings.TrimSpace(req.Title), maxTitleLen)
	if title == "" {
		return nil, errors.New("el registro externo no tiene título")
	}

	var created catalogoModel.BookModel
	var existing *catalogoModel.BookModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.Matcher.Find(tx, title, req.Author, req.ISBN)
		if err != nil {
			return err
		}
		if found != nil {
			existing = found
			return ErrDuplicateBook
		}

		author, err := getOrCreateAuthor(tx, req.Author)
		if err != nil {
			return err
		}

		genres, err := getOrCreateGenres(tx, req.Genres)
		if err != nil {
			return err
		}

		published := SentinelPublishDate
		if req.Year != nil && *req.Year > 0 && *req.Year <= 9999 {
			published = time.Date(*req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		pages := SentinelPages
		if req.Pages != nil && *req.Pages > 0 {
			pages = *req.Pages
		}

		if req.OwnerID != nil {
			var owner catalogoModel.UserModel
			if err := tx.First(&owner, "user_id = ?", *req.OwnerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("el usuario destino no existe")
				}
				return err
			}
		}

		created = catalogoModel.BookModel{
			BookTitle:         title,
			BookAuthorID:      author.AuthorID,
			BookOwnerID:       req.OwnerID,
			BookPublishedDate: published,
			BookISBN:          normalizeISBN(req.ISBN),
			BookPages:         pages,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if len(genres) > 0 {
			if err := tx.Model(&created).Association("Genres").Replace(genres); err != nil {
				return err
			}
			created.Genres = genres
		}
		created.Author = author
		return nil
	})
	if errors.Is(err, ErrDuplicateBook) {
		return existing, ErrDuplicateBook
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// getOrCreateAuthor busca por el par (nombre, apellido) y crea con centinelas
// si no existe. Una violación de unicidad en el create se reintenta como
// lookup: otro import concurrente ganó la creación.
func getOrCreateAuthor(tx *gorm.DB, full string) (catalogoModel.AuthorModel, error) {
	first, last := SplitAuthor(full)
	if strings.TrimSpace(first) == "" {
		first = SentinelName
	}
	if strings.TrimSpace(last) == "" {
		last = SentinelName
	}
	first = truncateRunes(first, 100)
	last = truncateRunes(last, 100)

	var author catalogoModel.AuthorModel
	err := tx.First(&author, "author_first_name = ? AND author_last_name = ?", first, last).Error
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return catalogoModel.AuthorModel{}, err
	}

	author = catalogoModel.AuthorModel{
		AuthorFirstName:   first,
		AuthorLastName:    last,
		AuthorBirthDate:   SentinelBirthDate,
		AuthorNationality: SentinelNationality,
	}
	if err := tx.Create(&author).Error; err != nil {
		if isUniqueViolation(err) {
			var existing catalogoModel.AuthorModel
			if lookupErr := tx.First(&existing,
				"author_first_name = ? AND author_last_name = ?", first, last).Error; lookupErr == nil {
				return existing, nil
			}
		}
		return catalogoModel.AuthorModel{}, err
	}
	return author, nil
}

// getOrCreateGenres toma hasta maxGenres materias, recortadas a maxGenreLen.
func getOrCreateGenres(tx *gorm.DB, subjects []string) ([]catalogoModel.GenreModel, error) {
	genres := make([]catalogoModel.GenreModel, 0, maxGenres)
	seen := make(map[string]bool, maxGenres)

	for _, subject := range subjects {
		if len(genres) >= maxGenres {
			break
		}
		name := truncateRunes(strings.TrimSpace(subject), maxGenreLen)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		var genre catalogoModel.GenreModel
		err := tx.First(&genre, "genre_name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			genre = catalogoModel.GenreModel{GenreName: name, GenreDescription: "Importado de Open Library"}
			if err := tx.Create(&genre).Error; err != nil {
				if isUniqueViolation(err) {
					if lookupErr := tx.First(&genre, "genre_name = ?", name).Error; lookupErr != nil {
						return nil, lookupErr
					}
				} else {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

// truncateRunes recorta a max runas sin partir secuencias UTF-8.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func normalizeISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	clean := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(*isbn, "-", ""), " ", ""))
	if clean == "" {
		return nil
	}
	if len(clean) > 13 {
		clean = clean[:13]
	}
	return &clean
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
