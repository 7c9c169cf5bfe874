package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
	cuentasModel "biblioteca_backend/internals/features/cuentas/model"
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
		&catalogoModel.AuthorModel{},
		&catalogoModel.GenreModel{},
		&catalogoModel.BookModel{},
		&cuentasModel.CuentaModel{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (catalogoModel.UserModel, catalogoModel.AuthorModel, catalogoModel.GenreModel, catalogoModel.BookModel) {
	t.Helper()
	user := catalogoModel.UserModel{
		UserFirstName: "Ana", UserLastName: "García",
		UserAge: 30, UserEmail: "ana@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("usuario: %v", err)
	}
	author := catalogoModel.AuthorModel{
		AuthorFirstName: "Frank", AuthorLastName: "Herbert",
		AuthorBirthDate:   time.Date(1920, 10, 8, 0, 0, 0, 0, time.UTC),
		AuthorNationality: "Estadounidense",
	}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("autor: %v", err)
	}
	genre := catalogoModel.GenreModel{GenreName: "Ciencia ficción"}
	if err := db.Create(&genre).Error; err != nil {
		t.Fatalf("género: %v", err)
	}
	book := catalogoModel.BookModel{
		BookTitle: "Dune", BookAuthorID: author.AuthorID,
		BookOwnerID:       &user.UserID,
		BookPublishedDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		BookPages:         412,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("libro: %v", err)
	}
	if err := db.Model(&book).Association("Genres").Replace([]catalogoModel.GenreModel{genre}); err != nil {
		t.Fatalf("enlace género: %v", err)
	}
	return user, author, genre, book
}

func TestOnDeleteUserReleasesBooksAndAccount(t *testing.T) {
	db := openTestDB(t)
	user, _, _, book := seedCatalog(t, db)

	cuenta := cuentasModel.CuentaModel{
		CuentaUsername: "ana.garcia", CuentaPassword: "hash",
		CuentaRole: "Lectores", CuentaUserID: &user.UserID, CuentaIsActive: true,
	}
	if err := db.Create(&cuenta).Error; err != nil {
		t.Fatalf("cuenta: %v", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return OnDeleteUser(tx, user.UserID)
	}); err != nil {
		t.Fatalf("OnDeleteUser: %v", err)
	}

	// El libro sobrevive y vuelve al fondo común.
	var reloaded catalogoModel.BookModel
	if err := db.First(&reloaded, "book_id = ?", book.BookID).Error; err != nil {
		t.Fatalf("el libro no debe borrarse: %v", err)
	}
	if reloaded.BookOwnerID != nil {
		t.Error("el libro debe quedar sin dueño")
	}

	var usuarios, cuentas int64
	db.Model(&catalogoModel.UserModel{}).Count(&usuarios)
	db.Unscoped().Model(&cuentasModel.CuentaModel{}).
		Where("cuenta_user_id = ?", user.UserID).Count(&cuentas)
	if usuarios != 0 {
		t.Error("el lector debe borrarse")
	}
	if cuentas != 0 {
		t.Error("la cuenta enlazada debe borrarse")
	}
}

func TestOnDeleteAuthorRemovesDependentBooks(t *testing.T) {
	db := openTestDB(t)
	_, author, genre, book := seedCatalog(t, db)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return OnDeleteAuthor(tx, author.AuthorID)
	}); err != nil {
		t.Fatalf("OnDeleteAuthor: %v", err)
	}

	var books, links int64
	db.Model(&catalogoModel.BookModel{}).Where("book_id = ?", book.BookID).Count(&books)
	db.Table("book_genres").Where("book_id = ?", book.BookID).Count(&links)
	if books != 0 {
		t.Error("los libros del autor deben borrarse")
	}
	if links != 0 {
		t.Error("los enlaces de género deben limpiarse")
	}

	// El género en sí sobrevive.
	var genres int64
	db.Model(&catalogoModel.GenreModel{}).Where("genre_id = ?", genre.GenreID).Count(&genres)
	if genres != 1 {
		t.Error("el género no debe borrarse junto con el autor")
	}
}

func TestOnDeleteGenreKeepsBooks(t *testing.T) {
	db := openTestDB(t)
	_, _, genre, book := seedCatalog(t, db)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return OnDeleteGenre(tx, genre.GenreID)
	}); err != nil {
		t.Fatalf("OnDeleteGenre: %v", err)
	}

	var books, links int64
	db.Model(&catalogoModel.BookModel{}).Where("book_id = ?", book.BookID).Count(&books)
	db.Table("book_genres").Where("genre_id = ?", genre.GenreID).Count(&links)
	if books != 1 {
		t.Error("borrar un género no debe tocar los libros")
	}
	if links != 0 {
		t.Error("los enlaces m2m deben limpiarse")
	}
}

func TestOnDeleteBookCleansLinks(t *testing.T) {
	db := openTestDB(t)
	_, _, _, book := seedCatalog(t, db)

	if err := db.Transaction(func(tx *gorm.DB) error {
		return OnDeleteBook(tx, book.BookID)
	}); err != nil {
		t.Fatalf("OnDeleteBook: %v", err)
	}

	var books, links int64
	db.Model(&catalogoModel.BookModel{}).Count(&books)
	db.Table("book_genres").Count(&links)
	if books != 0 || links != 0 {
		t.Errorf("libro y enlaces deben desaparecer (books=%d links=%d)", books, links)
	}
}
