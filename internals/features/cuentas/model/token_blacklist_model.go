package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenBlacklistModel guarda tokens de acceso invalidados por logout hasta que
// expiran. El middleware de auth los consulta en cada request.
type TokenBlacklistModel struct {
	TokenBlacklistID        uuid.UUID      `gorm:"column:token_blacklist_id;type:uuid;primaryKey" json:"token_blacklist_id"`
	TokenBlacklistToken     string         `gorm:"column:token_blacklist_token;type:text;uniqueIndex;not null" json:"token_blacklist_token"`
	TokenBlacklistExpiredAt time.Time      `gorm:"column:token_blacklist_expired_at;not null" json:"token_blacklist_expired_at"`
	TokenBlacklistCreatedAt time.Time      `gorm:"column:token_blacklist_created_at;not null;autoCreateTime" json:"token_blacklist_created_at"`
	TokenBlacklistDeletedAt gorm.DeletedAt `gorm:"column:token_blacklist_deleted_at;index" json:"token_blacklist_deleted_at,omitempty"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }

func (m *TokenBlacklistModel) BeforeCreate(tx *gorm.DB) error {
	if m.TokenBlacklistID == uuid.Nil {
		m.TokenBlacklistID = uuid.New()
	}
	return nil
}
