package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
)

// StartBlacklistCleanupScheduler purga periódicamente los tokens revocados ya
// vencidos: una vez expirados el middleware los rechaza por firma/exp de todos
// modos, así que la fila solo ocupa espacio.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			res := db.Unscoped().
				Where("token_blacklist_expired_at < ?", time.Now()).
				Delete(&cuentasModel.TokenBlacklistModel{})
			if res.Error != nil {
				log.Printf("⚠️ limpieza de blacklist falló: %v", res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 blacklist: %d token(s) vencidos eliminados", res.RowsAffected)
			}
		}
	}()
}
