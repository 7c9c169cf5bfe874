package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CuentaModel es la identidad de acceso al sistema: credencial + rol +
// capacidades. Un lector tiene a lo sumo una cuenta (enlace único y nullable).
type CuentaModel struct {
	CuentaID       uuid.UUID  `gorm:"column:cuenta_id;type:uuid;primaryKey" json:"cuenta_id"`
	CuentaUsername string     `gorm:"column:cuenta_username;type:varchar(150);uniqueIndex;not null" json:"cuenta_username"`
	CuentaPassword string     `gorm:"column:cuenta_password;type:text;not null" json:"-"`
	CuentaRole     string     `gorm:"column:cuenta_role;type:varchar(30);not null;default:Lectores" json:"cuenta_role"`
	CuentaUserID   *uuid.UUID `gorm:"column:cuenta_user_id;type:uuid;uniqueIndex" json:"cuenta_user_id,omitempty"`

	// Capacidades extra por cuenta, separadas por coma (además de las que
	// implica el rol). Columna de texto plano para mantener el esquema portable.
	CuentaCapabilities string `gorm:"column:cuenta_capabilities;type:text" json:"cuenta_capabilities"`

	CuentaIsActive  bool           `gorm:"column:cuenta_is_active;not null;default:true" json:"cuenta_is_active"`
	CuentaCreatedAt time.Time      `gorm:"column:cuenta_created_at;not null;autoCreateTime" json:"cuenta_created_at"`
	CuentaUpdatedAt time.Time      `gorm:"column:cuenta_updated_at;not null;autoUpdateTime" json:"cuenta_updated_at"`
	CuentaDeletedAt gorm.DeletedAt `gorm:"column:cuenta_deleted_at;index" json:"cuenta_deleted_at,omitempty"`
}

func (CuentaModel) TableName() string { return "cuentas" }

func (m *CuentaModel) BeforeCreate(tx *gorm.DB) error {
	if m.CuentaID == uuid.Nil {
		m.CuentaID = uuid.New()
	}
	return nil
}

func (m *CuentaModel) CapabilityList() []string {
	if strings.TrimSpace(m.CuentaCapabilities) == "" {
		return nil
	}
	parts := strings.Split(m.CuentaCapabilities, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *CuentaModel) SetCapabilities(caps []string) {
	m.CuentaCapabilities = strings.Join(caps, ",")
}
