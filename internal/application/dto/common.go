package dto

// PageRequest paginación opcional para listados. Limit 0 = sin límite.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize corrige valores negativos.
func (p *PageRequest) Normalize() {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Bounds devuelve el rango [start, end) de la página dentro de n elementos.
func (p PageRequest) Bounds(n int) (start, end int) {
	start = min(p.Offset, n)
	end = n
	if p.Limit > 0 && start+p.Limit < n {
		end = start + p.Limit
	}
	return start, end
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
