package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&catalogoModel.UserModel{},
		&catalogoModel.AuthorModel{},
		&catalogoModel.GenreModel{},
		&catalogoModel.BookModel{},
	); err != nil {
		t.Fatalf("migrando esquema: %v", err)
	}
	return db
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestImportRecordCreatesBookWithSentinels(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   strPtr("9780441013593"),
		Genres: []string{"Science Fiction", "Classics"},
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}

	// Sin año ni páginas: centinelas.
	if book.BookPublishedDate != SentinelPublishDate {
		t.Errorf("fecha centinela esperada, tengo %v", book.BookPublishedDate)
	}
	if book.BookPages != SentinelPages {
		t.Errorf("páginas centinela esperadas, tengo %d", book.BookPages)
	}
	if book.BookOwnerID != nil {
		t.Error("sin owner_id el libro debe quedar en el fondo común")
	}

	var author catalogoModel.AuthorModel
	if err := db.First(&author, "author_id = ?", book.BookAuthorID).Error; err != nil {
		t.Fatalf("cargando autor: %v", err)
	}
	if author.AuthorFirstName != "Frank" || author.AuthorLastName != "Herbert" {
		t.Errorf("autor dividido mal: %q %q", author.AuthorFirstName, author.AuthorLastName)
	}
	if author.AuthorNationality != SentinelNationality {
		t.Errorf("nacionalidad centinela esperada, tengo %q", author.AuthorNationality)
	}
	if !author.AuthorBirthDate.Equal(SentinelBirthDate) {
		t.Errorf("fecha de nacimiento centinela esperada, tengo %v", author.AuthorBirthDate)
	}

	if len(book.Genres) != 2 {
		t.Errorf("quiero 2 géneros, tengo %d", len(book.Genres))
	}
}

func TestImportRecordIsIdempotentByISBN(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	req := ImportRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   strPtr("9780441013593"),
	}
	first, err := svc.ImportRecord(context.Background(), req)
	if err != nil {
		t.Fatalf("primer import: %v", err)
	}

	// Mismo ISBN con otro título: duplicado, devuelve el existente.
	dup, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Dune (edición aniversario)",
		Author: "Frank Herbert",
		ISBN:   strPtr("9780441013593"),
	})
	if !errors.Is(err, ErrDuplicateBook) {
		t.Fatalf("quiero ErrDuplicateBook, tengo %v", err)
	}
	if dup == nil || dup.BookID != first.BookID {
		t.Fatal("el duplicado debe referir al libro existente")
	}

	var count int64
	db.Model(&catalogoModel.BookModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("quiero 1 libro tras import duplicado, tengo %d", count)
	}
}

func TestImportRecordDedupByExactTitle(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	first, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Dune",
		Author: "Frank Herbert",
	})
	if err != nil {
		t.Fatalf("primer import: %v", err)
	}

	// Título idéntico salvo mayúsculas y el nombre del autor registrado
	// ("Frank") contiene el último token consultado: duplicado.
	dup, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "DUNE",
		Author: "Frank",
	})
	if !errors.Is(err, ErrDuplicateBook) {
		t.Fatalf("quiero ErrDuplicateBook por título exacto, tengo %v", err)
	}
	if dup == nil || dup.BookID != first.BookID {
		t.Fatal("el duplicado debe referir al libro existente")
	}

	// Otra entrega de la saga: el título contiene al existente como
	// subcadena pero no es idéntico, así que entra como libro propio.
	if _, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Dune Messiah",
		Author: "Frank Herbert",
	}); err != nil {
		t.Fatalf("un título distinto no debe tragarse como duplicado: %v", err)
	}

	// Mismo título exacto pero autor sin relación: tampoco es duplicado.
	if _, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Dune",
		Author: "Max Evry",
	}); err != nil {
		t.Fatalf("otro autor no debería chocar: %v", err)
	}

	var count int64
	db.Model(&catalogoModel.BookModel{}).Count(&count)
	if count != 3 {
		t.Fatalf("quiero 3 libros en el catálogo, tengo %d", count)
	}
}

func TestImportRecordCapsGenres(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	subjects := []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8"}
	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Muchos géneros",
		Author: "Autor Prolífico",
		Genres: subjects,
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if len(book.Genres) != 5 {
		t.Fatalf("quiero tope de 5 géneros, tengo %d", len(book.Genres))
	}
}

func TestImportRecordTruncatesLongGenreNames(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	long := strings.Repeat("x", 80)
	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Género largo",
		Author: "Autor",
		Genres: []string{long},
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if len(book.Genres) != 1 || len(book.Genres[0].GenreName) != 50 {
		t.Fatalf("el nombre de género debe recortarse a 50, tengo %d", len(book.Genres[0].GenreName))
	}
}

func TestImportRecordMononymAuthor(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Chéri",
		Author: "Colette",
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}

	// Un solo token es el apellido; el nombre queda en el centinela.
	var author catalogoModel.AuthorModel
	if err := db.First(&author, "author_id = ?", book.BookAuthorID).Error; err != nil {
		t.Fatalf("cargando autor: %v", err)
	}
	if author.AuthorFirstName != SentinelName || author.AuthorLastName != "Colette" {
		t.Errorf("autor mononímico mal dividido: %q %q",
			author.AuthorFirstName, author.AuthorLastName)
	}
}

func TestImportRecordIgnoresAbsurdYears(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  "Crónica del futuro lejano",
		Author: "Autora Visionaria",
		Year:   intPtr(12000),
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if !book.BookPublishedDate.Equal(SentinelPublishDate) {
		t.Errorf("un año fuera de rango debe caer al centinela, tengo %v",
			book.BookPublishedDate)
	}
}

func TestImportRecordTruncatesOnRuneBoundaries(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:  strings.Repeat("á", 250),
		Author: "Autora Ñoña",
		Genres: []string{strings.Repeat("ñ", 80)},
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if n := utf8.RuneCountInString(book.BookTitle); n != 200 {
		t.Errorf("quiero título de 200 runas, tengo %d", n)
	}
	if !utf8.ValidString(book.BookTitle) {
		t.Error("el recorte de título partió una secuencia UTF-8")
	}
	if len(book.Genres) != 1 {
		t.Fatalf("quiero 1 género, tengo %d", len(book.Genres))
	}
	if n := utf8.RuneCountInString(book.Genres[0].GenreName); n != 50 {
		t.Errorf("quiero género de 50 runas, tengo %d", n)
	}
	if !utf8.ValidString(book.Genres[0].GenreName) {
		t.Error("el recorte de género partió una secuencia UTF-8")
	}
}

func TestImportRecordReusesExistingAuthor(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	first, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title: "Dune", Author: "Frank Herbert",
	})
	if err != nil {
		t.Fatalf("primer import: %v", err)
	}
	second, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title: "El mesías de otra saga", Author: "Frank Herbert",
	})
	if err != nil {
		t.Fatalf("segundo import: %v", err)
	}
	if first.BookAuthorID != second.BookAuthorID {
		t.Fatal("el mismo autor no debe duplicarse")
	}

	var count int64
	db.Model(&catalogoModel.AuthorModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("quiero 1 autor, tengo %d", count)
	}
}

func TestImportRecordAssignsOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewImportService(db)

	owner := catalogoModel.UserModel{
		UserFirstName: "Ana", UserLastName: "García",
		UserAge: 30, UserEmail: "ana@example.com",
	}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("creando usuario: %v", err)
	}

	book, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:   "Dune",
		Author:  "Frank Herbert",
		OwnerID: &owner.UserID,
	})
	if err != nil {
		t.Fatalf("ImportRecord: %v", err)
	}
	if book.BookOwnerID == nil || *book.BookOwnerID != owner.UserID {
		t.Fatal("el libro importado debe quedar en la biblioteca indicada")
	}

	// Owner inexistente: transacción revertida, nada escrito.
	missing := uuid.New()
	if _, err := svc.ImportRecord(context.Background(), ImportRequest{
		Title:   "Otro libro totalmente distinto",
		Author:  "Alguien Más",
		OwnerID: &missing,
	}); err == nil {
		t.Fatal("owner inexistente debe fallar")
	}
	var count int64
	db.Model(&catalogoModel.BookModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("el import fallido no debe dejar escrituras parciales (libros=%d)", count)
	}
}

func TestSplitAuthor(t *testing.T) {
	cases := []struct {
		in, first, last string
	}{
		{"Frank Herbert", "Frank", "Herbert"},
		{"Gabriel García Márquez", "Gabriel García", "Márquez"},
		{"Colette", "", "Colette"},
		{"", "Autor", "Desconocido"},
		{"   ", "Autor", "Desconocido"},
	}
	for _, tc := range cases {
		first, last := SplitAuthor(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitAuthor(%q) = (%q, %q), quiero (%q, %q)",
				tc.in, first, last, tc.first, tc.last)
		}
	}
}

func TestPickISBN(t *testing.T) {
	// ISBN-13 numérico gana sobre ISBN-10 aunque venga después.
	if got := PickISBN([]string{"3161484100", "978-3-16-148410-0"}); got != "9783161484100" {
		t.Errorf("PickISBN prefirió %q, quiero el ISBN-13", got)
	}
	// Sin 13 válido: cae al ISBN-10 (X final admitida).
	if got := PickISBN([]string{"080442957X"}); got != "080442957X" {
		t.Errorf("PickISBN = %q, quiero el ISBN-10 con X", got)
	}
	// Basura: nada.
	if got := PickISBN([]string{"no-es-isbn", "12345"}); got != "" {
		t.Errorf("PickISBN = %q, quiero cadena vacía", got)
	}
}
