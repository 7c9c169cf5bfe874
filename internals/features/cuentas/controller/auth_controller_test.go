package controller

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biblioteca_backend/internals/configs"
	"biblioteca_backend/internals/constants"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
	authMiddleware "biblioteca_backend/internals/middlewares/auth"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abriendo sqlite en memoria: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&catalogoModel.UserModel{},
		&cuentasModel.CuentaModel{},
		&cuentasModel.TokenBlacklistModel{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	return db
}

func newAuthApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	ctrl := NewAuthController(db)
	app.Post("/api/auth/register", ctrl.Register)
	app.Post("/api/auth/login", ctrl.Login)
	app.Post("/api/auth/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, target string, payload interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("leyendo respuesta: %v", err)
	}
	var parsed map[string]interface{}
	// los errores del middleware salen como texto plano del handler por defecto
	if len(body) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := sonic.Unmarshal(body, &parsed); err != nil {
			t.Fatalf("respuesta no es JSON: %v (%s)", err, body)
		}
	}
	return resp, parsed
}

func TestMain(m *testing.M) {
	configs.JWTSecret = "clave-de-prueba"
	os.Exit(m.Run())
}

func registerPayload() fiber.Map {
	return fiber.Map{
		"username":   "ana.garcia",
		"password":   "secreta123",
		"first_name": "Ana",
		"last_name":  "García",
		"email":      "ana@example.com",
		"age":        30,
	}
}

func TestRegisterCreatesReaderWithLinkedLibrary(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	resp, body := postJSON(t, app, "/api/auth/register", registerPayload(), nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("quiero 201, tengo %d (%v)", resp.StatusCode, body)
	}

	data := body["data"].(map[string]interface{})
	if data["access_token"] == "" || data["refresh_token"] == "" {
		t.Fatal("el registro debe emitir ambos tokens")
	}
	cuenta := data["cuenta"].(map[string]interface{})
	if cuenta["role"] != constants.RoleLectores {
		t.Errorf("rol inicial %v, quiero Lectores", cuenta["role"])
	}
	if cuenta["user_id"] == nil {
		t.Error("la cuenta debe quedar enlazada a un lector con biblioteca")
	}

	var lectores int64
	db.Model(&catalogoModel.UserModel{}).Count(&lectores)
	if lectores != 1 {
		t.Errorf("quiero 1 lector creado, tengo %d", lectores)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	if resp, _ := postJSON(t, app, "/api/auth/register", registerPayload(), nil); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("primer registro falló: %d", resp.StatusCode)
	}

	second := registerPayload()
	second["email"] = "otra@example.com"
	resp, body := postJSON(t, app, "/api/auth/register", second, nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("quiero 409, tengo %d (%v)", resp.StatusCode, body)
	}

	// El lector de la transacción fallida no debe persistir.
	var lectores int64
	db.Model(&catalogoModel.UserModel{}).Count(&lectores)
	if lectores != 1 {
		t.Errorf("la transacción revertida dejó %d lectores", lectores)
	}
}

func TestLoginAndLogoutFlow(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	if resp, _ := postJSON(t, app, "/api/auth/register", registerPayload(), nil); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("registro falló: %d", resp.StatusCode)
	}

	resp, body := postJSON(t, app, "/api/auth/login", fiber.Map{
		"username": "ana.garcia",
		"password": "secreta123",
	}, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: quiero 200, tengo %d (%v)", resp.StatusCode, body)
	}
	access := body["data"].(map[string]interface{})["access_token"].(string)
	if access == "" {
		t.Fatal("login sin access token")
	}

	// Contraseña incorrecta
	resp, _ = postJSON(t, app, "/api/auth/login", fiber.Map{
		"username": "ana.garcia",
		"password": "incorrecta",
	}, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("contraseña mala: quiero 401, tengo %d", resp.StatusCode)
	}

	// Logout con el token válido
	headers := map[string]string{"Authorization": "Bearer " + access}
	resp, _ = postJSON(t, app, "/api/auth/logout", fiber.Map{}, headers)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: quiero 200, tengo %d", resp.StatusCode)
	}

	// El token revocado ya no sirve.
	resp, _ = postJSON(t, app, "/api/auth/logout", fiber.Map{}, headers)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("token revocado: quiero 401, tengo %d", resp.StatusCode)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	db := openTestDB(t)
	app := newAuthApp(db)

	if resp, _ := postJSON(t, app, "/api/auth/register", registerPayload(), nil); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("registro falló: %d", resp.StatusCode)
	}
	if err := db.Model(&cuentasModel.CuentaModel{}).
		Where("cuenta_username = ?", "ana.garcia").
		Update("cuenta_is_active", false).Error; err != nil {
		t.Fatalf("desactivando cuenta: %v", err)
	}

	resp, body := postJSON(t, app, "/api/auth/login", fiber.Map{
		"username": "ana.garcia",
		"password": "secreta123",
	}, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("cuenta inactiva: quiero 403, tengo %d (%v)", resp.StatusCode, body)
	}
}
