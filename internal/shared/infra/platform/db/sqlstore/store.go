package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// Store implementa query.Store sobre una tabla relacional.
// Solo los campos declarados en columns son filtrables, ordenables y visibles.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string
	fields  []string          // orden de columnas del SELECT por defecto
	columns map[string]string // campo público -> columna
}

var _ query.Store = (*Store)(nil)

// Column declara un campo expuesto por el store.
type Column struct {
	Field  string
	Column string
}

func NewStore(db *sql.DB, dialect Dialect, table string, cols ...Column) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		table:   table,
		columns: make(map[string]string, len(cols)),
	}
	for _, c := range cols {
		s.fields = append(s.fields, c.Field)
		s.columns[c.Field] = c.Column
	}
	return s
}

func (s *Store) Count(ctx context.Context, filter sharedDomain.Criteria) (int64, error) {
	where, args, err := s.where(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	q := s.dialect.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where))
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, filter sharedDomain.Criteria, opts query.FindOptions) (query.Cursor, error) {
	if opts.Populate != nil {
		return nil, fmt.Errorf("%w: populate is not supported on table %s", query.ErrInvalidQuery, s.table)
	}

	where, args, err := s.where(filter)
	if err != nil {
		return nil, err
	}
	fields, cols, err := s.selectList(opts.Projection)
	if err != nil {
		return nil, err
	}
	orderBy, err := s.orderBy(opts.Sort)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s", strings.Join(cols, ", "), s.table, where, orderBy)
	if opts.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Skip)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	return &rowsCursor{rows: rows, fields: fields}, nil
}

func (s *Store) column(field string) (string, error) {
	col, ok := s.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q", query.ErrInvalidQuery, field)
	}
	return col, nil
}

func (s *Store) where(filter sharedDomain.Criteria) (string, []interface{}, error) {
	if filter == nil {
		return "", nil, nil
	}
	conds := filter.ToConditions()
	if len(conds) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conds))
	var args []interface{}
	for _, c := range conds {
		col, err := s.column(c.Field)
		if err != nil {
			return "", nil, err
		}

		switch c.Op {
		case sharedDomain.OpEq, sharedDomain.OpGt, sharedDomain.OpGte, sharedDomain.OpLt, sharedDomain.OpLte:
			parts = append(parts, fmt.Sprintf("%s %s ?", col, c.Op))
			args = append(args, c.Value)
		case sharedDomain.OpIn:
			list, ok := c.Value.([]interface{})
			if !ok {
				return "", nil, fmt.Errorf("%w: %s[in] expects a list", query.ErrInvalidQuery, c.Field)
			}
			if len(list) == 0 {
				parts = append(parts, "1 = 0")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", col, strings.TrimSuffix(strings.Repeat("?, ", len(list)), ", ")))
			args = append(args, list...)
		default:
			return "", nil, fmt.Errorf("%w: unsupported operator %q", query.ErrInvalidQuery, c.Op)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// selectList incluye siempre el id, igual que la proyección de Mongo.
func (s *Store) selectList(projection []string) ([]string, []string, error) {
	fields := projection
	if len(fields) == 0 {
		fields = s.fields
	} else if _, ok := s.columns["id"]; ok && !contains(fields, "id") {
		fields = append([]string{"id"}, fields...)
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		col, err := s.column(f)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, col)
	}
	return fields, cols, nil
}

func (s *Store) orderBy(sorts []query.Sort) (string, error) {
	parts := make([]string, 0, len(sorts)+1)
	hasID := false
	for _, srt := range sorts {
		col, err := s.column(srt.Field)
		if err != nil {
			return "", err
		}
		if srt.Field == "id" {
			hasID = true
		}
		dir := "ASC"
		if srt.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if idCol, ok := s.columns["id"]; ok && !hasID {
		parts = append(parts, idCol+" ASC")
	}
	if len(parts) == 0 {
		return "1", nil
	}
	return strings.Join(parts, ", "), nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
