// Package service hace explícitas las políticas de borrado en cascada, que en
// el modelo son deliberadamente asimétricas:
//   - borrar un lector DEVUELVE sus libros al fondo común (owner a NULL)
//   - borrar un autor ELIMINA sus libros dependientes
//   - borrar un género solo limpia los enlaces m2m
package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

// OnDeleteUser anula la propiedad de los libros del lector y borra la cuenta
// enlazada si existe. Debe ejecutarse dentro de una transacción.
func OnDeleteUser(tx *gorm.DB, userID uuid.UUID) error {
	if err := tx.Model(&catalogoModel.BookModel{}).
		Where("book_owner_id = ?", userID).
		Update("book_owner_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM cuentas WHERE cuenta_user_id = ?", userID).Error; err != nil {
		return err
	}
	return tx.Delete(&catalogoModel.UserModel{}, "user_id = ?", userID).Error
}

// OnDeleteAuthor elimina los libros del autor (y sus enlaces de género) antes
// de borrar al autor. Debe ejecutarse dentro de una transacción.
func OnDeleteAuthor(tx *gorm.DB, authorID uuid.UUID) error {
	var bookIDs []uuid.UUID
	if err := tx.Model(&catalogoModel.BookModel{}).
		Where("book_author_id = ?", authorID).
		Pluck("book_id", &bookIDs).Error; err != nil {
		return err
	}
	if len(bookIDs) > 0 {
		if err := tx.Exec("DELETE FROM book_genres WHERE book_id IN ?", bookIDs).Error; err != nil {
			return err
		}
		if err := tx.Delete(&catalogoModel.BookModel{}, "book_id IN ?", bookIDs).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&catalogoModel.AuthorModel{}, "author_id = ?", authorID).Error
}

// OnDeleteGenre limpia los enlaces m2m y borra el género.
func OnDeleteGenre(tx *gorm.DB, genreID uuid.UUID) error {
	if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", genreID).Error; err != nil {
		return err
	}
	return tx.Delete(&catalogoModel.GenreModel{}, "genre_id = ?", genreID).Error
}

// OnDeleteBook borra el libro y sus enlaces de género.
func OnDeleteBook(tx *gorm.DB, bookID uuid.UUID) error {
	if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", bookID).Error; err != nil {
		return err
	}
	return tx.Delete(&catalogoModel.BookModel{}, "book_id = ?", bookID).Error
}
