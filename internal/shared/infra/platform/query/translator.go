package query

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

var reservedParams = map[string]bool{
	ParamSelect: true,
	ParamSort:   true,
	ParamPage:   true,
	ParamLimit:  true,
}

// Operadores admitidos en la sintaxis field[op]=value.
var bracketOperators = map[string]sharedDomain.Operator{
	"gt":  sharedDomain.OpGt,
	"gte": sharedDomain.OpGte,
	"lt":  sharedDomain.OpLt,
	"lte": sharedDomain.OpLte,
	"in":  sharedDomain.OpIn,
}

type parseConfig struct {
	textFields   map[string]bool
	dateFields   map[string]bool
	defaultLimit int
}

// Formatos aceptados en los campos de fecha.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseOption ajusta el comportamiento del traductor.
type ParseOption func(*parseConfig)

// WithTextFields evita la coerción numérica/booleana en los campos indicados
// (ej. zipcode "02118" debe seguir siendo un string).
func WithTextFields(fields ...string) ParseOption {
	return func(c *parseConfig) {
		for _, f := range fields {
			c.textFields[f] = true
		}
	}
}

// WithDateFields convierte los valores de esos campos a time.Time (RFC3339 o YYYY-MM-DD).
// Un valor que no es una fecha se deja como string.
func WithDateFields(fields ...string) ParseOption {
	return func(c *parseConfig) {
		for _, f := range fields {
			c.dateFields[f] = true
		}
	}
}

// WithDefaultLimit cambia el tamaño de página usado cuando no llega limit.
func WithDefaultLimit(limit int) ParseOption {
	return func(c *parseConfig) {
		if limit > 0 {
			c.defaultLimit = limit
		}
	}
}

// Parse traduce los query params a filtro, proyección, orden y paginación.
// Nunca falla: la entrada mal formada se degrada a valores por defecto.
func Parse(values url.Values, opts ...ParseOption) Request {
	cfg := parseConfig{textFields: map[string]bool{}, dateFields: map[string]bool{}, defaultLimit: DefaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	req := Request{
		Filter:     sharedDomain.Filter{},
		Projection: splitList(values.Get(ParamSelect)),
		Sort:       parseSort(values.Get(ParamSort)),
		Page:       parseBounded(values.Get(ParamPage), DefaultPage, MaxPage),
		Limit:      parseBounded(values.Get(ParamLimit), cfg.defaultLimit, MaxLimit),
	}

	// Orden determinista del filtro, url.Values es un mapa.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reservedParams[key] {
			continue
		}
		crit, ok := parseCriterion(key, values[key], cfg)
		if !ok {
			req.Ignored = append(req.Ignored, key)
			continue
		}
		req.Filter = append(req.Filter, crit)
	}

	return req
}

// parseCriterion interpreta "field" o "field[op]". No hay reescritura textual:
// solo el contenido entre corchetes se considera operador.
func parseCriterion(key string, raw []string, cfg parseConfig) (sharedDomain.Criterion, bool) {
	if key == "" || strings.HasPrefix(key, "$") || len(raw) == 0 {
		return sharedDomain.Criterion{}, false
	}

	field, op := key, sharedDomain.OpEq
	if open := strings.IndexByte(key, '['); open >= 0 {
		if open == 0 || !strings.HasSuffix(key, "]") {
			return sharedDomain.Criterion{}, false
		}
		token := key[open+1 : len(key)-1]
		known, ok := bracketOperators[token]
		if !ok {
			return sharedDomain.Criterion{}, false
		}
		field, op = key[:open], known
	}
	if strings.ContainsAny(field, "[]$") {
		return sharedDomain.Criterion{}, false
	}

	kind := kindNumeric
	switch {
	case cfg.dateFields[field]:
		kind = kindDate
	case cfg.textFields[field]:
		kind = kindText
	}

	if op == sharedDomain.OpIn {
		var list []interface{}
		for _, v := range raw {
			for _, item := range splitList(v) {
				list = append(list, coerce(item, kind))
			}
		}
		return sharedDomain.Criterion{Field: field, Op: op, Value: list}, true
	}

	// field=a&field=b se interpreta como pertenencia al conjunto.
	if op == sharedDomain.OpEq && len(raw) > 1 {
		list := make([]interface{}, 0, len(raw))
		for _, v := range raw {
			list = append(list, coerce(v, kind))
		}
		return sharedDomain.Criterion{Field: field, Op: sharedDomain.OpIn, Value: list}, true
	}

	return sharedDomain.Criterion{Field: field, Op: op, Value: coerce(raw[0], kind)}, true
}

func parseSort(raw string) []Sort {
	fields := splitList(raw)
	if len(fields) == 0 {
		return DefaultSort()
	}

	sorts := make([]Sort, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimLeft(f, "-+")
		if name == "" {
			continue
		}
		sorts = append(sorts, Sort{Field: name, Desc: desc})
	}
	if len(sorts) == 0 {
		return DefaultSort()
	}
	return sorts
}

// parseBounded devuelve fallback si el valor no es numérico y lo acota a [1, upper].
func parseBounded(raw string, fallback, upper int) int {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if v < 0 {
				return 1
			}
			return upper
		}
		return fallback
	}
	if v < 1 {
		return 1
	}
	if v > int64(upper) {
		return upper
	}
	return int(v)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type valueKind int

const (
	kindNumeric valueKind = iota
	kindText
	kindDate
)

func coerce(raw string, kind valueKind) interface{} {
	switch kind {
	case kindText:
		return raw
	case kindDate:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC()
			}
		}
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
