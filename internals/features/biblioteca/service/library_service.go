// Package service implementa el flujo de traspaso de propiedad de libros.
//
// Máquina de estados de un libro: SinDueño <-> PropiedadDe(u). Nunca se pasa
// de PropiedadDe(u) a PropiedadDe(v) directamente; el traspaso siempre cruza
// por SinDueño.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bibliotecaModel "biblioteca_backend/internals/features/biblioteca/model"
	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

var ErrUserNotFound = errors.New("usuario no encontrado")
var ErrBookNotFound = errors.New("libro no encontrado")

// AddResult reporta cuántos libros se agregaron y cuáles ya no estaban
// disponibles (por título) cuando otro usuario ganó la carrera.
type AddResult struct {
	Added        int
	NotAvailable []string
}

type RemoveResult struct {
	Removed int
}

// AddBooks asigna al lector los libros indicados. El dueño actual se
// re-verifica DENTRO de la transacción, inmediatamente antes de escribir: la
// selección pudo hacerse sobre una lista ya desactualizada (carrera
// check-then-act entre usuarios concurrentes). El UPDATE condicionado a
// book_owner_id IS NULL hace la comprobación y la escritura en un solo paso;
// RowsAffected == 0 significa que otro se lo llevó antes.
func AddBooks(ctx context.Context, db *gorm.DB, actorID *uuid.UUID, targetUserID uuid.UUID, bookIDs []uuid.UUID) (AddResult, error) {
	var result AddResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target catalogoModel.UserModel
		if err := tx.First(&target, "user_id = ?", targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		for _, bookID := range bookIDs {
			res := tx.Model(&catalogoModel.BookModel{}).
				Where("book_id = ? AND book_owner_id IS NULL", bookID).
				Update("book_owner_id", targetUserID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				result.Added++
				entry := bibliotecaModel.TransferLogModel{
					TransferLogBookID:  bookID,
					TransferLogUserID:  targetUserID,
					TransferLogAction:  "add",
					TransferLogActorID: actorID,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
				continue
			}

			// Sin filas afectadas: o el libro no existe, o ya tiene dueño.
			var book catalogoModel.BookModel
			if err := tx.First(&book, "book_id = ?", bookID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrBookNotFound
				}
				return err
			}
			result.NotAvailable = append(result.NotAvailable, book.BookTitle)
		}
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}
	return result, nil
}

// RemoveBooks quita la propiedad solo si el dueño actual es exactamente el
// lector objetivo (filtro por id Y owner, así una lista de ids forjada no
// puede soltar libros de otro). Los que no coinciden se ignoran sin error:
// ya-no-es-suyo equivale a ya-removido.
func RemoveBooks(ctx context.Context, db *gorm.DB, actorID *uuid.UUID, targetUserID uuid.UUID, bookIDs []uuid.UUID) (RemoveResult, error) {
	var result RemoveResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target catalogoModel.UserModel
		if err := tx.First(&target, "user_id = ?", targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		for _, bookID := range bookIDs {
			res := tx.Model(&catalogoModel.BookModel{}).
				Where("book_id = ? AND book_owner_id = ?", bookID, targetUserID).
				Update("book_owner_id", nil)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				result.Removed++
				entry := bibliotecaModel.TransferLogModel{
					TransferLogBookID:  bookID,
					TransferLogUserID:  targetUserID,
					TransferLogAction:  "remove",
					TransferLogActorID: actorID,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return RemoveResult{}, err
	}
	return result, nil
}

// AvailableBooks lista el fondo común (libros sin dueño).
func AvailableBooks(ctx context.Context, db *gorm.DB) ([]catalogoModel.BookModel, error) {
	var books []catalogoModel.BookModel
	err := db.WithContext(ctx).
		Preload("Author").Preload("Genres").
		Where("book_owner_id IS NULL").
		Order("book_title").
		Find(&books).Error
	return books, err
}

// UserBooks lista la biblioteca de un lector.
func UserBooks(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]catalogoModel.BookModel, error) {
	var books []catalogoModel.BookModel
	err := db.WithContext(ctx).
		Preload("Author").Preload("Genres").
		Where("book_owner_id = ?", userID).
		Order("book_title").
		Find(&books).Error
	return books, err
}
