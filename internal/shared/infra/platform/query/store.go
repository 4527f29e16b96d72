package query

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

var (
	// ErrInvalidQuery indica que el almacenamiento rechazó el filtro, el orden o un campo.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrQueryFailed envuelve cualquier otro fallo del almacenamiento.
	ErrQueryFailed = errors.New("upstream query failed")
)

// Record es un documento genérico ya normalizado (clave "id", tipos Go nativos).
type Record map[string]interface{}

// Cursor es una secuencia perezosa de registros. *mongo.Cursor cumple esta forma.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

// Populate incluye un documento relacionado en cada registro (ej. el bootcamp de un curso).
type Populate struct {
	Path   string   // campo local con el id referenciado
	From   string   // colección/tabla de origen
	Select []string // campos del documento relacionado; vacío = todos
}

// FindOptions agrupa lo que necesita la consulta paginada.
type FindOptions struct {
	Projection Projection
	Sort       []Sort
	Skip       int64
	Limit      int64
	Populate   *Populate
}

// Store es el puerto de lectura que usa el ensamblador de resultados.
type Store interface {
	Count(ctx context.Context, filter sharedDomain.Criteria) (int64, error)
	Find(ctx context.Context, filter sharedDomain.Criteria, opts FindOptions) (Cursor, error)
}
