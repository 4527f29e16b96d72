package mongodb

import (
	"context"
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

var errUnsupportedDest = errors.New("mongodb cursor: destination must be *query.Record")

// recordCursor adapta *mongo.Cursor para que Decode entregue Records normalizados.
type recordCursor struct {
	cur *mongo.Cursor
}

var _ query.Cursor = (*recordCursor)(nil)

func (c *recordCursor) Next(ctx context.Context) bool { return c.cur.Next(ctx) }

func (c *recordCursor) Decode(val interface{}) error {
	dest, ok := val.(*query.Record)
	if !ok {
		// Cualquier otro destino se decodifica directamente con el driver.
		if reflect.ValueOf(val).Kind() != reflect.Ptr {
			return errUnsupportedDest
		}
		return c.cur.Decode(val)
	}
	var doc bson.M
	if err := c.cur.Decode(&doc); err != nil {
		return err
	}
	*dest = normalizeDoc(doc)
	return nil
}

func (c *recordCursor) Err() error { return MapQueryError(c.cur.Err()) }

func (c *recordCursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }
