package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferLogModel es el rastro de auditoría de los movimientos de propiedad
// (alta/baja de libros en bibliotecas). Se escribe dentro de la misma
// transacción que el cambio de owner.
type TransferLogModel struct {
	TransferLogID        uuid.UUID  `gorm:"column:transfer_log_id;type:uuid;primaryKey" json:"transfer_log_id"`
	TransferLogBookID    uuid.UUID  `gorm:"column:transfer_log_book_id;type:uuid;not null;index" json:"transfer_log_book_id"`
	TransferLogUserID    uuid.UUID  `gorm:"column:transfer_log_user_id;type:uuid;not null;index" json:"transfer_log_user_id"`
	TransferLogAction    string     `gorm:"column:transfer_log_action;type:varchar(10);not null" json:"transfer_log_action"` // "add" | "remove"
	TransferLogActorID   *uuid.UUID `gorm:"column:transfer_log_actor_id;type:uuid" json:"transfer_log_actor_id,omitempty"`
	TransferLogCreatedAt time.Time  `gorm:"column:transfer_log_created_at;not null;autoCreateTime" json:"transfer_log_created_at"`
}

func (TransferLogModel) TableName() string { return "transfer_log" }

func (m *TransferLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.TransferLogID == uuid.Nil {
		m.TransferLogID = uuid.New()
	}
	return nil
}
