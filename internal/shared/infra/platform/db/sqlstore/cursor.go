package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// rowsCursor recorre *sql.Rows de forma perezosa y entrega cada fila como Record.
type rowsCursor struct {
	rows   *sql.Rows
	fields []string
}

var _ query.Cursor = (*rowsCursor)(nil)

func (c *rowsCursor) Next(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	return c.rows.Next()
}

func (c *rowsCursor) Decode(val interface{}) error {
	dest, ok := val.(*query.Record)
	if !ok {
		return fmt.Errorf("sqlstore cursor: unsupported destination %T", val)
	}

	values := make([]interface{}, len(c.fields))
	ptrs := make([]interface{}, len(c.fields))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return err
	}

	rec := make(query.Record, len(c.fields))
	for i, f := range c.fields {
		if b, ok := values[i].([]byte); ok {
			rec[f] = string(b)
			continue
		}
		rec[f] = values[i]
	}
	*dest = rec
	return nil
}

func (c *rowsCursor) Err() error { return c.rows.Err() }

func (c *rowsCursor) Close(ctx context.Context) error { return c.rows.Close() }
