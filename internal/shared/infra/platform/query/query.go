package query

import (
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

const (
	ParamSelect = "select"
	ParamSort   = "sort"
	ParamPage   = "page"
	ParamLimit  = "limit"

	DefaultPage      = 1
	DefaultLimit     = 20
	DefaultSortField = "createdAt"

	// Topes de paginación: con ellos (Page*Limit) nunca desborda un int64.
	MaxLimit = 1000
	MaxPage  = 1<<31 - 2
)

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Sort indica campo y dirección.
type Sort struct {
	Field string // ej. "createdAt", "name", "averageCost"
	Desc  bool
}

// Projection es la lista ordenada de campos a devolver. Vacía = todos.
type Projection []string

// Request es el resultado de traducir los query params de una petición de listado.
type Request struct {
	Filter     sharedDomain.Filter
	Projection Projection
	Sort       []Sort
	Page       int
	Limit      int

	// Ignored lista las claves descartadas (operador desconocido, '$', sintaxis inválida).
	Ignored []string
}

// DefaultSort es el orden aplicado cuando no llega el parámetro sort.
func DefaultSort() []Sort {
	return []Sort{{Field: DefaultSortField, Desc: true}}
}
