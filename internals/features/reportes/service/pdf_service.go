// Package service genera los reportes PDF del catálogo y les aplica una firma
// digital opcional.
package service

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	catalogoModel "biblioteca_backend/internals/features/catalogo/model"
)

const (
	maxTitleCell  = 50
	maxAuthorCell = 60
)

// BuildBooksPDF arma un reporte tabular A4 con los libros dados. El encabezado
// lleva el título del reporte y el total de registros.
func BuildBooksPDF(title string, books []catalogoModel.BookModel) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total de libros: %d", len(books)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Encabezado de tabla
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(62, 7, "Título", "1", 0, "L", true, 0, "")
	pdf.CellFormat(48, 7, "Autor", "1", 0, "L", true, 0, "")
	pdf.CellFormat(18, 7, "Páginas", "1", 0, "R", true, 0, "")
	pdf.CellFormat(24, 7, "Publicado", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Géneros", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i := range books {
		b := &books[i]
		pdf.CellFormat(62, 6, truncate(b.BookTitle, maxTitleCell), "1", 0, "L", false, 0, "")
		pdf.CellFormat(48, 6, truncate(b.Author.FullName(), maxAuthorCell), "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%d", b.BookPages), "1", 0, "R", false, 0, "")
		pdf.CellFormat(24, 6, b.BookPublishedDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(38, 6, truncate(joinGenres(b.Genres), 40), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generando PDF: %w", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		return nil, fmt.Errorf("salida PDF malformada")
	}
	return out, nil
}

// truncate acota una celda a max runas, nunca a mitad de una secuencia UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func joinGenres(genres []catalogoModel.GenreModel) string {
	if len(genres) == 0 {
		return "-"
	}
	out := genres[0].GenreName
	for _, g := range genres[1:] {
		out += ", " + g.GenreName
	}
	return out
}
