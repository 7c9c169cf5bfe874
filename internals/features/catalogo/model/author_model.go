package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NOTE:
// - índice único compuesto (first_name, last_name): la deduplicación de import
//   identifica al autor por el par de nombres, no por clave externa, y el
//   get-or-create concurrente se apoya en esta restricción.
type AuthorModel struct {
	AuthorID          uuid.UUID `gorm:"column:author_id;type:uuid;primaryKey" json:"author_id"`
	AuthorFirstName   string    `gorm:"column:author_first_name;type:varchar(100);not null;uniqueIndex:uq_authors_name" json:"author_first_name"`
	AuthorLastName    string    `gorm:"column:author_last_name;type:varchar(100);not null;uniqueIndex:uq_authors_name" json:"author_last_name"`
	AuthorBirthDate   time.Time `gorm:"column:author_birth_date;not null" json:"author_birth_date"`
	AuthorNationality string    `gorm:"column:author_nationality;type:varchar(50);not null" json:"author_nationality"`
	AuthorCreatedAt   time.Time `gorm:"column:author_created_at;not null;autoCreateTime" json:"author_created_at"`

	Books []BookModel `gorm:"foreignKey:BookAuthorID;references:AuthorID" json:"books,omitempty"`
}

func (AuthorModel) TableName() string { return "authors" }

func (m *AuthorModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuthorID == uuid.Nil {
		m.AuthorID = uuid.New()
	}
	return nil
}

func (m *AuthorModel) FullName() string {
	return m.AuthorFirstName + " " + m.AuthorLastName
}
