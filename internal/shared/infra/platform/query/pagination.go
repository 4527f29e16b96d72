package query

// PageRef apunta a una página concreta en la metadata de paginación.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination es la metadata de navegación del sobre de respuesta.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Window es la ventana [Start, End) de una página sobre Total registros.
type Window struct {
	Page  int
	Limit int
	Start int64
	End   int64
	Total int64
}

// NewWindow calcula la ventana de una página. page se acota a [1, MaxPage] y limit a [1, MaxLimit].
func NewWindow(page, limit int, total int64) Window {
	page = clamp(page, 1, MaxPage)
	limit = clamp(limit, 1, MaxLimit)
	return Window{
		Page:  page,
		Limit: limit,
		Start: int64(page-1) * int64(limit),
		End:   int64(page) * int64(limit),
		Total: total,
	}
}

// Pagination devuelve next si quedan registros después de End y prev si Start > 0.
func (w Window) Pagination() Pagination {
	var p Pagination
	if w.End < w.Total {
		p.Next = &PageRef{Page: w.Page + 1, Limit: w.Limit}
	}
	if w.Start > 0 {
		p.Prev = &PageRef{Page: w.Page - 1, Limit: w.Limit}
	}
	return p
}

// Remaining es el número de registros que caben en la ventana, nunca más que Limit.
func (w Window) Remaining() int64 {
	left := w.Total - w.Start
	if left < 0 {
		return 0
	}
	if left > int64(w.Limit) {
		return int64(w.Limit)
	}
	return left
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Offset traduce la ventana a la paginación por offset que entienden los repositorios.
func (w Window) Offset() OffsetPagination {
	return OffsetPagination{Limit: w.Limit, Offset: int(w.Start)}
}
