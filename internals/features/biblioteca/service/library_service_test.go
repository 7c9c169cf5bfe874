package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bibliotecaModel "biblioteca_backend/internals/features/biblioteca/model"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
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
	// una sola conexión para que :memory: sea una única base
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&catalogoModel.UserModel{},
		&catalogoModel.AuthorModel{},
		&catalogoModel.GenreModel{},
		&catalogoModel.BookModel{},
		&bibliotecaModel.TransferLogModel{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, first, last string) catalogoModel.UserModel {
	t.Helper()
	u := catalogoModel.UserModel{
		UserFirstName: first,
		UserLastName:  last,
		UserAge:       30,
		UserEmail:     first + "." + last + "@example.com",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("creando usuario: %v", err)
	}
	return u
}

func seedBook(t *testing.T, db *gorm.DB, title string) catalogoModel.BookModel {
	t.Helper()
	author := catalogoModel.AuthorModel{
		AuthorFirstName:   "Frank",
		AuthorLastName:    "Herbert-" + uuid.NewString()[:8],
		AuthorBirthDate:   time.Date(1920, 10, 8, 0, 0, 0, 0, time.UTC),
		AuthorNationality: "Estadounidense",
	}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("creando autor: %v", err)
	}
	b := catalogoModel.BookModel{
		BookTitle:         title,
		BookAuthorID:      author.AuthorID,
		BookPublishedDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		BookPages:         412,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("creando libro: %v", err)
	}
	return b
}

func TestAddBooksAssignsUnownedBook(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Ana", "García")
	book := seedBook(t, db, "Dune")

	result, err := AddBooks(context.Background(), db, nil, user.UserID, []uuid.UUID{book.BookID})
	if err != nil {
		t.Fatalf("AddBooks: %v", err)
	}
	if result.Added != 1 || len(result.NotAvailable) != 0 {
		t.Fatalf("quiero 1 agregado sin conflictos, tengo %+v", result)
	}

	var reloaded catalogoModel.BookModel
	if err := db.First(&reloaded, "book_id = ?", book.BookID).Error; err != nil {
		t.Fatalf("recargando libro: %v", err)
	}
	if reloaded.BookOwnerID == nil || *reloaded.BookOwnerID != user.UserID {
		t.Fatalf("el libro debería pertenecer a %s, owner=%v", user.UserID, reloaded.BookOwnerID)
	}

	var logs int64
	db.Model(&bibliotecaModel.TransferLogModel{}).
		Where("transfer_log_book_id = ? AND transfer_log_action = ?", book.BookID, "add").
		Count(&logs)
	if logs != 1 {
		t.Errorf("quiero 1 entrada de auditoría add, tengo %d", logs)
	}
}

func TestAddBooksRefusesOwnedBook(t *testing.T) {
	db := openTestDB(t)
	ana := seedUser(t, db, "Ana", "García")
	luis := seedUser(t, db, "Luis", "Pérez")
	book := seedBook(t, db, "Dune")

	if _, err := AddBooks(context.Background(), db, nil, ana.UserID, []uuid.UUID{book.BookID}); err != nil {
		t.Fatalf("primer add: %v", err)
	}

	// Luis seleccionó el libro cuando aún aparecía disponible.
	result, err := AddBooks(context.Background(), db, nil, luis.UserID, []uuid.UUID{book.BookID})
	if err != nil {
		t.Fatalf("segundo add: %v", err)
	}
	if result.Added != 0 {
		t.Fatalf("el libro ya tenía dueño; no debería agregarse (result=%+v)", result)
	}
	if len(result.NotAvailable) != 1 || result.NotAvailable[0] != "Dune" {
		t.Fatalf("quiero el título en NotAvailable, tengo %v", result.NotAvailable)
	}

	var reloaded catalogoModel.BookModel
	db.First(&reloaded, "book_id = ?", book.BookID)
	if reloaded.BookOwnerID == nil || *reloaded.BookOwnerID != ana.UserID {
		t.Fatal("el dueño original debe conservarse")
	}
}

func TestAddBooksConcurrentExclusivity(t *testing.T) {
	db := openTestDB(t)
	ana := seedUser(t, db, "Ana", "García")
	luis := seedUser(t, db, "Luis", "Pérez")
	book := seedBook(t, db, "Fundación")

	var wg sync.WaitGroup
	results := make([]AddResult, 2)
	errs := make([]error, 2)
	for i, target := range []uuid.UUID{ana.UserID, luis.UserID} {
		wg.Add(1)
		go func(i int, target uuid.UUID) {
			defer wg.Done()
			results[i], errs[i] = AddBooks(context.Background(), db, nil, target, []uuid.UUID{book.BookID})
		}(i, target)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if results[0].Added+results[1].Added != 1 {
		t.Fatalf("exactamente un add debe ganar, tengo %+v y %+v", results[0], results[1])
	}
}

func TestRemoveBooksOnlyFromActualOwner(t *testing.T) {
	db := openTestDB(t)
	ana := seedUser(t, db, "Ana", "García")
	luis := seedUser(t, db, "Luis", "Pérez")
	book := seedBook(t, db, "Dune")

	if _, err := AddBooks(context.Background(), db, nil, ana.UserID, []uuid.UUID{book.BookID}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Intento de quitar desde otra biblioteca: no afecta nada.
	result, err := RemoveBooks(context.Background(), db, nil, luis.UserID, []uuid.UUID{book.BookID})
	if err != nil {
		t.Fatalf("remove ajeno: %v", err)
	}
	if result.Removed != 0 {
		t.Fatalf("no debería quitar libros de otra biblioteca (result=%+v)", result)
	}
	var reloaded catalogoModel.BookModel
	db.First(&reloaded, "book_id = ?", book.BookID)
	if reloaded.BookOwnerID == nil || *reloaded.BookOwnerID != ana.UserID {
		t.Fatal("el libro debe seguir siendo de Ana")
	}

	// Quitar del dueño real devuelve el libro al fondo común.
	result, err = RemoveBooks(context.Background(), db, nil, ana.UserID, []uuid.UUID{book.BookID})
	if err != nil {
		t.Fatalf("remove propio: %v", err)
	}
	if result.Removed != 1 {
		t.Fatalf("quiero 1 removido, tengo %+v", result)
	}
	reloaded = catalogoModel.BookModel{}
	db.First(&reloaded, "book_id = ?", book.BookID)
	if reloaded.BookOwnerID != nil {
		t.Fatal("el libro debería volver al fondo común")
	}
}

func TestAddBooksUnknownUserAndBook(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Ana", "García")

	if _, err := AddBooks(context.Background(), db, nil, uuid.New(), nil); err != ErrUserNotFound {
		t.Fatalf("quiero ErrUserNotFound, tengo %v", err)
	}
	if _, err := AddBooks(context.Background(), db, nil, user.UserID, []uuid.UUID{uuid.New()}); err != ErrBookNotFound {
		t.Fatalf("quiero ErrBookNotFound, tengo %v", err)
	}
}

func TestAvailableAndUserBooks(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "Ana", "García")
	free := seedBook(t, db, "Libro libre")
	owned := seedBook(t, db, "Libro propio")

	if _, err := AddBooks(context.Background(), db, nil, user.UserID, []uuid.UUID{owned.BookID}); err != nil {
		t.Fatalf("add: %v", err)
	}

	available, err := AvailableBooks(context.Background(), db)
	if err != nil {
		t.Fatalf("AvailableBooks: %v", err)
	}
	if len(available) != 1 || available[0].BookID != free.BookID {
		t.Fatalf("quiero solo el libro libre, tengo %d", len(available))
	}

	mine, err := UserBooks(context.Background(), db, user.UserID)
	if err != nil {
		t.Fatalf("UserBooks: %v", err)
	}
	if len(mine) != 1 || mine[0].BookID != owned.BookID {
		t.Fatalf("quiero solo el libro propio, tengo %d", len(mine))
	}
}
