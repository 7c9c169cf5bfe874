package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NOTE:
// - book_owner_id NULL = libro en el fondo común, disponible para reclamar
// - ISBN nullable; la unicidad solo aplica entre libros que sí tienen ISBN
//   (los NULL no chocan entre sí en el índice único)
type BookModel struct {
	BookID            uuid.UUID  `gorm:"column:book_id;type:uuid;primaryKey" json:"book_id"`
	BookTitle         string     `gorm:"column:book_title;type:varchar(200);not null" json:"book_title"`
	BookAuthorID      uuid.UUID  `gorm:"column:book_author_id;type:uuid;not null;index" json:"book_author_id"`
	BookOwnerID       *uuid.UUID `gorm:"column:book_owner_id;type:uuid;index" json:"book_owner_id,omitempty"`
	BookPublishedDate time.Time  `gorm:"column:book_published_date;not null" json:"book_published_date"`
	BookISBN          *string    `gorm:"column:book_isbn;type:varchar(13);uniqueIndex" json:"book_isbn,omitempty"`
	BookPages         int        `gorm:"column:book_pages;not null" json:"book_pages"`
	BookCreatedAt     time.Time  `gorm:"column:book_created_at;not null;autoCreateTime" json:"book_created_at"`

	Author AuthorModel  `gorm:"foreignKey:BookAuthorID;references:AuthorID" json:"author,omitempty"`
	Owner  *UserModel   `gorm:"foreignKey:BookOwnerID;references:UserID" json:"owner,omitempty"`
	Genres []GenreModel `gorm:"many2many:book_genres;foreignKey:BookID;joinForeignKey:book_id;References:GenreID;joinReferences:genre_id" json:"genres,omitempty"`
}

func (BookModel) TableName() string { return "books" }

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	return nil
}

// IsUnowned indica si el libro está en el fondo común.
func (m *BookModel) IsUnowned() bool { return m.BookOwnerID == nil }
