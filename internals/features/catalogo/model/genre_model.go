package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenreModel struct {
	GenreID          uuid.UUID `gorm:"column:genre_id;type:uuid;primaryKey" json:"genre_id"`
	GenreName        string    `gorm:"column:genre_name;type:varchar(50);uniqueIndex;not null" json:"genre_name"`
	GenreDescription string    `gorm:"column:genre_description;type:text" json:"genre_description"`
	GenreCreatedAt   time.Time `gorm:"column:genre_created_at;not null;autoCreateTime" json:"genre_created_at"`
}

func (GenreModel) TableName() string { return "genres" }

func (m *GenreModel) BeforeCreate(tx *gorm.DB) error {
	if m.GenreID == uuid.Nil {
		m.GenreID = uuid.New()
	}
	return nil
}
