package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect identifica el driver database/sql en uso.
type Dialect string

const (
	SQLite   Dialect = "sqlite" // modernc.org/sqlite
	Postgres Dialect = "pgx"    // github.com/jackc/pgx/v5/stdlib
)

// ParseDialect acepta los nombres de driver habituales. Por defecto sqlite.
func ParseDialect(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "pgx", "postgres", "postgresql":
		return Postgres
	default:
		return SQLite
	}
}

// DriverName es el nombre registrado en database/sql.
func (d Dialect) DriverName() string {
	return string(d)
}

// Rebind reescribe los placeholders '?' al formato del dialecto ($1, $2... en Postgres).
// Los '?' dentro de literales entre comillas simples no se tocan.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}

	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(q); i++ {
		ch := q[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
