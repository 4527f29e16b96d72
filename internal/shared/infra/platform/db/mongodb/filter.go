package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// CriteriaToFilter traduce criterios neutrales a un filtro bson.
// Varios operadores sobre el mismo campo se combinan en un único documento
// (ej. averageCost[gte]=5000&averageCost[lte]=10000).
func CriteriaToFilter(criteria sharedDomain.Criteria) bson.D {
	filter := bson.D{}
	if criteria == nil {
		return filter
	}

	index := map[string]int{}
	for _, c := range criteria.ToConditions() {
		field := fieldName(c.Field)
		op := mongoOperator(c.Op)

		if pos, ok := index[field]; ok {
			doc := filter[pos].Value.(bson.D)
			filter[pos].Value = append(doc, bson.E{Key: op, Value: c.Value})
			continue
		}
		index[field] = len(filter)
		filter = append(filter, bson.E{Key: field, Value: bson.D{{Key: op, Value: c.Value}}})
	}
	return filter
}

func mongoOperator(op sharedDomain.Operator) string {
	switch op {
	case sharedDomain.OpGt:
		return "$gt"
	case sharedDomain.OpGte:
		return "$gte"
	case sharedDomain.OpLt:
		return "$lt"
	case sharedDomain.OpLte:
		return "$lte"
	case sharedDomain.OpIn:
		return "$in"
	default:
		return "$eq"
	}
}

// fieldName mapea el identificador público "id" al "_id" de Mongo.
func fieldName(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

// SortToBSON conserva el orden de prioridad y añade _id como desempate estable.
func SortToBSON(sorts []query.Sort) bson.D {
	out := bson.D{}
	hasID := false
	for _, s := range sorts {
		dir := 1
		if s.Desc {
			dir = -1
		}
		field := fieldName(s.Field)
		if field == "_id" {
			hasID = true
		}
		out = append(out, bson.E{Key: field, Value: dir})
	}
	if !hasID {
		out = append(out, bson.E{Key: "_id", Value: 1})
	}
	return out
}

// ProjectionToBSON devuelve nil si no hay proyección (todos los campos).
// El _id siempre se incluye.
func ProjectionToBSON(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	out := bson.D{}
	for _, f := range fields {
		if f = fieldName(f); f == "_id" {
			continue
		}
		out = append(out, bson.E{Key: f, Value: 1})
	}
	return out
}
