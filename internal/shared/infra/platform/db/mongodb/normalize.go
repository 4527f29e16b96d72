package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// normalizeDoc convierte un documento bson en un Record con tipos Go nativos
// y renombra _id a id (también en documentos embebidos por populate).
func normalizeDoc(doc bson.M) query.Record {
	rec := make(query.Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			k = "id"
		}
		rec[k] = normalizeValue(v)
	}
	return rec
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		return normalizeDoc(val)
	case bson.D:
		return normalizeDoc(val.Map())
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	case primitive.Binary:
		return val.Data
	default:
		return val
	}
}
