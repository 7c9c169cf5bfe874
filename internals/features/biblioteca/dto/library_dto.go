package dto

import "github.com/google/uuid"

/* =========================================================
   Requests
   ========================================================= */

// TransferBooksRequest lleva los ids seleccionados en la vista de traspaso.
type TransferBooksRequest struct {
	BookIDs []uuid.UUID `json:"book_ids" validate:"required,min=1,dive,required"`
}

/* =========================================================
   Responses
   ========================================================= */

type AddBooksResponse struct {
	Added        int      `json:"added"`
	NotAvailable []string `json:"not_available,omitempty"`
	Message      string   `json:"message"`
}

type RemoveBooksResponse struct {
	Removed int    `json:"removed"`
	Message string `json:"message"`
}
