package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// InMemoryStore simula query.Store sobre una lista de registros.
// Cuenta las llamadas para poder verificar que el ensamblador hace exactamente dos consultas.
type InMemoryStore struct {
	Records    []query.Record
	Related    map[string][]query.Record // colecciones para populate
	Err        error                     // si no es nil, Count y Find fallan
	CountCalls int
	FindCalls  int
	mu         sync.Mutex
}

var _ query.Store = (*InMemoryStore)(nil)

func NewInMemoryStore(records ...query.Record) *InMemoryStore {
	return &InMemoryStore{Records: records, Related: map[string][]query.Record{}}
}

func (s *InMemoryStore) Count(ctx context.Context, filter sharedDomain.Criteria) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CountCalls++
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.match(filter))), nil
}

func (s *InMemoryStore) Find(ctx context.Context, filter sharedDomain.Criteria, opts query.FindOptions) (query.Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindCalls++
	if s.Err != nil {
		return nil, s.Err
	}

	list := s.match(filter)

	sort.SliceStable(list, func(i, j int) bool {
		for _, srt := range opts.Sort {
			c := compareValues(list[i][srt.Field], list[j][srt.Field])
			if c == 0 {
				continue
			}
			if srt.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	start := int(opts.Skip)
	if start > len(list) {
		start = len(list)
	}
	end := len(list)
	if opts.Limit > 0 && start+int(opts.Limit) < end {
		end = start + int(opts.Limit)
	}

	page := make([]query.Record, 0, end-start)
	for _, rec := range list[start:end] {
		out := project(rec, opts.Projection)
		if opts.Populate != nil {
			s.populate(out, opts.Populate)
		}
		page = append(page, out)
	}
	return NewSliceCursor(page), nil
}

func (s *InMemoryStore) match(filter sharedDomain.Criteria) []query.Record {
	var conds []sharedDomain.Criterion
	if filter != nil {
		conds = filter.ToConditions()
	}

	var out []query.Record
	for _, rec := range s.Records {
		if matchRecord(rec, conds) {
			out = append(out, rec)
		}
	}
	return out
}

func (s *InMemoryStore) populate(rec query.Record, p *query.Populate) {
	ref, ok := rec[p.Path]
	if !ok {
		return
	}
	for _, rel := range s.Related[p.From] {
		if fmt.Sprint(rel["id"]) == fmt.Sprint(ref) {
			rec[p.Path] = project(rel, p.Select)
			return
		}
	}
	rec[p.Path] = nil
}

func matchRecord(rec query.Record, conds []sharedDomain.Criterion) bool {
	for _, cond := range conds {
		val, ok := rec[cond.Field]
		if !ok {
			return false
		}
		var match bool
		switch cond.Op {
		case sharedDomain.OpEq:
			match = compareValues(val, cond.Value) == 0
		case sharedDomain.OpGt:
			match = compareValues(val, cond.Value) > 0
		case sharedDomain.OpGte:
			match = compareValues(val, cond.Value) >= 0
		case sharedDomain.OpLt:
			match = compareValues(val, cond.Value) < 0
		case sharedDomain.OpLte:
			match = compareValues(val, cond.Value) <= 0
		case sharedDomain.OpIn:
			list, _ := cond.Value.([]interface{})
			for _, item := range list {
				if compareValues(val, item) == 0 {
					match = true
					break
				}
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func project(rec query.Record, fields []string) query.Record {
	out := query.Record{}
	if len(fields) == 0 {
		for k, v := range rec {
			out[k] = v
		}
		return out
	}
	if id, ok := rec["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

func compareValues(a, b interface{}) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// SliceCursor implementa query.Cursor sobre registros en memoria.
type SliceCursor struct {
	records []query.Record
	pos     int
	Closed  bool
}

func NewSliceCursor(records []query.Record) *SliceCursor {
	return &SliceCursor{records: records, pos: -1}
}

func (c *SliceCursor) Next(ctx context.Context) bool {
	if c.pos+1 >= len(c.records) {
		return false
	}
	c.pos++
	return true
}

// Decode copia el registro actual vía JSON, igual que haría un driver real con el documento.
func (c *SliceCursor) Decode(val interface{}) error {
	if c.pos < 0 || c.pos >= len(c.records) {
		return errors.New("cursor exhausted")
	}
	data, err := json.Marshal(c.records[c.pos])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, val)
}

func (c *SliceCursor) Err() error { return nil }

func (c *SliceCursor) Close(ctx context.Context) error {
	c.Closed = true
	return nil
}
