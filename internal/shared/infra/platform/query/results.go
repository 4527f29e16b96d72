package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// Envelope es el sobre estándar de los listados.
type Envelope struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Data       []Record   `json:"data"`
}

// Results traduce los query params y ensambla el sobre con una consulta de conteo y otra de lectura.
func Results(ctx context.Context, store Store, values url.Values, populate *Populate, opts ...ParseOption) (*Envelope, error) {
	return Assemble(ctx, store, Parse(values, opts...), nil, populate)
}

// Assemble ejecuta el Request sobre el store. scope se combina (AND) con el filtro del
// Request, ej. para limitar los cursos a un bootcamp.
func Assemble(ctx context.Context, store Store, req Request, scope sharedDomain.Criteria, populate *Populate) (*Envelope, error) {
	var filter sharedDomain.Criteria = req.Filter
	if scope != nil {
		filter = sharedDomain.And(scope, req.Filter)
	}

	total, err := store.Count(ctx, filter)
	if err != nil {
		return nil, wrapStoreError(err)
	}

	window := NewWindow(req.Page, req.Limit, total)

	cursor, err := store.Find(ctx, filter, FindOptions{
		Projection: req.Projection,
		Sort:       req.Sort,
		Skip:       window.Start,
		Limit:      int64(window.Limit),
		Populate:   populate,
	})
	if err != nil {
		return nil, wrapStoreError(err)
	}
	defer cursor.Close(ctx)

	data := make([]Record, 0, window.Remaining())
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, wrapStoreError(err)
		}
		data = append(data, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapStoreError(err)
	}

	return &Envelope{
		Success:    true,
		Count:      len(data),
		Pagination: window.Pagination(),
		Data:       data,
	}, nil
}

func wrapStoreError(err error) error {
	if errors.Is(err, ErrInvalidQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrQueryFailed, err)
}
