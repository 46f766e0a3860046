package dto

// Paginación de los listados (extractos, ficha de stock, arqueos).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page ventana de un listado.
type Page struct {
	Limit  int
	Offset int
}

// NewPage normaliza limit/offset: límite por defecto si no viene, tope MaxPageLimit, offset no negativo.
func NewPage(limit, offset int) Page {
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Response describe la página devuelta con count elementos.
func (p Page) Response(count int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: count}
}

// PageResponse página en la respuesta.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
