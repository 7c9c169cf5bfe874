package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	// Firma digital de reportes (opcional; sin estos se usa un certificado
	// autofirmado efímero, SOLO para pruebas/demo)
	DigitalCertPath string
	PrivateKeyPath  string
	CertPassword    string

	// Proveedor externo de metadatos (Open Library)
	OpenLibraryBaseURL  string
	OpenLibraryTimeout  time.Duration
	OpenLibraryCacheTTL time.Duration
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No se encontró .env, se usa el ENV del sistema")
	} else {
		log.Println("✅ .env cargado")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	DigitalCertPath = GetEnv("DIGITAL_CERT_PATH")
	PrivateKeyPath = GetEnv("PRIVATE_KEY_PATH")
	CertPassword = GetEnv("CERT_PASSWORD")

	OpenLibraryBaseURL = GetEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org")
	OpenLibraryTimeout = GetEnvDuration("OPENLIBRARY_TIMEOUT", 10*time.Second)
	OpenLibraryCacheTTL = GetEnvDuration("OPENLIBRARY_CACHE_TTL", 600*time.Second)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET no está definido!")
	}
	if DigitalCertPath == "" || PrivateKeyPath == "" {
		log.Println("⚠️ Sin certificado configurado: los PDF se firman con un certificado autofirmado temporal (NO producción)")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvDuration acepta "10s"/"5m" o un número de segundos.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("⚠️ Valor inválido para %s=%q, se usa %s", key, raw, defaultValue)
	return defaultValue
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
