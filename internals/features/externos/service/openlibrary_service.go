// Package service integra el catálogo con el proveedor externo Open Library:
// búsqueda paginada con caché y normalización de registros a un formato
// interno estable.
package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/patrickmn/go-cache"

	"biblioteca_backend/internals/configs"
)

// ErrExternalProvider marca fallas del proveedor (red, HTTP no-2xx, JSON
// corrupto) para que el controlador las distinga de errores internos.
var ErrExternalProvider = errors.New("proveedor externo no disponible")

// Cache es el puerto de caché del cliente externo. La implementación por
// defecto es en memoria; se inyecta otra en pruebas.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

type memoryCache struct{ c *cache.Cache }

func (m memoryCache) Get(key string) (interface{}, bool)                 { return m.c.Get(key) }
func (m memoryCache) Set(key string, value interface{}, d time.Duration) { m.c.Set(key, value, d) }

// NewMemoryCache envuelve go-cache con limpieza periódica.
func NewMemoryCache(defaultTTL time.Duration) Cache {
	return memoryCache{c: cache.New(defaultTTL, 2*defaultTTL)}
}

/* =========================================================
   Registro externo normalizado
   ========================================================= */

// ExternalBook es un resultado ya normalizado. Los punteros nil marcan datos
// ausentes en el proveedor; los centinelas se aplican recién al importar.
type ExternalBook struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     *int     `json:"year,omitempty"`
	ISBN     *string  `json:"isbn,omitempty"`
	Pages    *int     `json:"pages,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	CoverURL string   `json:"cover_url,omitempty"`
}

type SearchResult struct {
	Books    []ExternalBook `json:"books"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

/* =========================================================
   Cliente
   ========================================================= */

type OpenLibraryService struct {
	BaseURL string
	HTTP    *http.Client
	Cache   Cache
	TTL     time.Duration
}

func NewOpenLibraryService() *OpenLibraryService {
	return &OpenLibraryService{
		BaseURL: configs.OpenLibraryBaseURL,
		HTTP:    &http.Client{Timeout: configs.OpenLibraryTimeout},
		Cache:   NewMemoryCache(configs.OpenLibraryCacheTTL),
		TTL:     configs.OpenLibraryCacheTTL,
	}
}

// Forma mínima del payload de search.json que consumimos.
type olSearchPayload struct {
	NumFound int           `json:"numFound"`
	Docs     []olSearchDoc `json:"docs"`
}

type olSearchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	NumberOfPages    *int     `json:"number_of_pages_median"`
	Subject          []string `json:"subject"`
	CoverI           *int     `json:"cover_i"`
}

// SearchBooks consulta search.json con paginación acotada ([1,100]) y caché
// por consulta+página. Un acierto de caché no toca la red.
func (s *OpenLibraryService) SearchBooks(query string, page, pageSize int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{Books: []ExternalBook{}, Page: 1, PageSize: pageSize}, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	key := fmt.Sprintf("ol:search:%s:%d:%d", strings.ToLower(query), page, pageSize)
	if cached, ok := s.Cache.Get(key); ok {
		if result, ok := cached.(SearchResult); ok {
			return result, nil
		}
	}

	endpoint := fmt.Sprintf("%s/search.json?q=%s&page=%d&limit=%d",
		s.BaseURL, url.QueryEscape(query), page, pageSize)
	payload, err := s.fetch(endpoint)
	if err != nil {
		return SearchResult{}, err
	}

	var parsed olSearchPayload
	if err := sonic.Unmarshal(payload, &parsed); err != nil {
		return SearchResult{}, fmt.Errorf("%w: respuesta ilegible: %v", ErrExternalProvider, err)
	}

	books := make([]ExternalBook, 0, len(parsed.Docs))
	for _, doc := range parsed.Docs {
		books = append(books, normalizeDoc(doc))
	}
	result := SearchResult{Books: books, Total: parsed.NumFound, Page: page, PageSize: pageSize}
	s.Cache.Set(key, result, s.TTL)
	return result, nil
}

// Forma mínima de /isbn/{isbn}.json.
type olEditionPayload struct {
	Title         string   `json:"title"`
	NumberOfPages *int     `json:"number_of_pages"`
	PublishDate   string   `json:"publish_date"`
	ISBN13        []string `json:"isbn_13"`
	ISBN10        []string `json:"isbn_10"`
	Authors       []struct {
		Key string `json:"key"`
	} `json:"authors"`
	Subjects []string `json:"subjects"`
}

// GetBookByISBN resuelve una edición por ISBN. El marcador "no-isbn" corta en
// seco: identifica filas de búsqueda sin ISBN y nunca llega al proveedor.
func (s *OpenLibraryService) GetBookByISBN(isbn string) (ExternalBook, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" || isbn == "no-isbn" {
		return ExternalBook{}, fmt.Errorf("%w: ISBN no disponible", ErrExternalProvider)
	}

	key := "ol:isbn:" + isbn
	if cached, ok := s.Cache.Get(key); ok {
		if book, ok := cached.(ExternalBook); ok {
			return book, nil
		}
	}

	payload, err := s.fetch(fmt.Sprintf("%s/isbn/%s.json", s.BaseURL, url.PathEscape(isbn)))
	if err != nil {
		return ExternalBook{}, err
	}

	var parsed olEditionPayload
	if err := sonic.Unmarshal(payload, &parsed); err != nil {
		return ExternalBook{}, fmt.Errorf("%w: respuesta ilegible: %v", ErrExternalProvider, err)
	}

	book := ExternalBook{
		Title:    strings.TrimSpace(parsed.Title),
		Pages:    parsed.NumberOfPages,
		Subjects: parsed.Subjects,
	}
	if picked := PickISBN(append(parsed.ISBN13, parsed.ISBN10...)); picked != "" {
		book.ISBN = &picked
	} else {
		book.ISBN = &isbn
	}
	if year := parseYear(parsed.PublishDate); year != nil {
		book.Year = year
	}
	s.Cache.Set(key, book, s.TTL)
	return book, nil
}

func (s *OpenLibraryService) fetch(endpoint string) ([]byte, error) {
	resp, err := s.HTTP.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrExternalProvider, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalProvider, err)
	}
	return body, nil
}

/* =========================================================
   Normalización
   ========================================================= */

func normalizeDoc(doc olSearchDoc) ExternalBook {
	book := ExternalBook{
		Title:   strings.TrimSpace(doc.Title),
		Authors: doc.AuthorName,
		Year:    doc.FirstPublishYear,
		Pages:   doc.NumberOfPages,
	}
	if picked := PickISBN(doc.ISBN); picked != "" {
		book.ISBN = &picked
	}
	if len(doc.Subject) > 0 {
		limit := len(doc.Subject)
		if limit > 5 {
			limit = 5
		}
		book.Subjects = doc.Subject[:limit]
	}
	if doc.CoverI != nil {
		book.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", *doc.CoverI)
	}
	return book
}

// PickISBN elige el mejor ISBN de una lista del proveedor: primero un ISBN-13
// completamente numérico, si no un ISBN-10 (dígitos con X final admitida).
// Los guiones y espacios se descartan antes de evaluar.
func PickISBN(candidates []string) string {
	var isbn10 string
	for _, raw := range candidates {
		clean := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(raw, "-", ""), " ", ""))
		switch {
		case len(clean) == 13 && allDigits(clean):
			return clean
		case len(clean) == 10 && isbn10 == "" && validISBN10(clean):
			isbn10 = clean
		}
	}
	return isbn10
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func validISBN10(s string) bool {
	if len(s) != 10 {
		return false
	}
	if !allDigits(s[:9]) {
		return false
	}
	last := s[9]
	return (last >= '0' && last <= '9') || last == 'X'
}

// SplitAuthor separa "Nombre(s) Apellido" en (nombre, apellido). Un solo
// token es el apellido y el nombre queda vacío (el alta de autor lo rellena
// con su centinela); vacío produce el par centinela ("Autor", "Desconocido").
func SplitAuthor(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	switch len(parts) {
	case 0:
		return "Autor", "Desconocido"
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

func parseYear(publishDate string) *int {
	publishDate = strings.TrimSpace(publishDate)
	if publishDate == "" {
		return nil
	}
	// Open Library publica fechas libres ("1965", "Jun 1, 1965"); el año son
	// los últimos 4 dígitos contiguos.
	for i := len(publishDate) - 4; i >= 0; i-- {
		chunk := publishDate[i : i+4]
		if allDigits(chunk) {
			year := 0
			for _, r := range chunk {
				year = year*10 + int(r-'0')
			}
			return &year
		}
	}
	return nil
}
