package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel es el lector dueño de una biblioteca. Puede existir sin cuenta de
// acceso al sistema (solo biblioteca).
type UserModel struct {
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserFirstName string    `gorm:"column:user_first_name;type:varchar(100);not null" json:"user_first_name"`
	UserLastName  string    `gorm:"column:user_last_name;type:varchar(100);not null" json:"user_last_name"`
	UserAge       int       `gorm:"column:user_age;not null" json:"user_age"`
	UserEmail     string    `gorm:"column:user_email;type:varchar(255);uniqueIndex;not null" json:"user_email"`
	UserCreatedAt time.Time `gorm:"column:user_created_at;not null;autoCreateTime" json:"user_created_at"`

	Books []BookModel `gorm:"foreignKey:BookOwnerID;references:UserID" json:"books,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}

func (m *UserModel) FullName() string {
	return m.UserFirstName + " " + m.UserLastName
}
