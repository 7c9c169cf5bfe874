package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"biblioteca_backend/internals/configs"
	bibliotecaModel "biblioteca_backend/internals/features/biblioteca/model"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Conectando a PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=biblioteca&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // compatible con PgBouncer en transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Error al conectar la DB: %v", err)
	}
	DB = db
	log.Println("✅ DB conectada.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate crea/actualiza el esquema del catálogo y las cuentas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogoModel.UserModel{},
		&catalogoModel.AuthorModel{},
		&catalogoModel.GenreModel{},
		&catalogoModel.BookModel{},
		&cuentasModel.CuentaModel{},
		&cuentasModel.TokenBlacklistModel{},
		&bibliotecaModel.TransferLogModel{},
	)
}

func WarmUp() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
