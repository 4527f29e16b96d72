package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/sqlstore"
	"github.com/davicafu/devcamper/internal/user/domain"
)

const UsersTable = "users"

// UserRepoSQL guarda usuarios en sqlite (modernc) o Postgres (pgx) con las mismas consultas;
// solo cambian los placeholders y el DDL.
type UserRepoSQL struct {
	db      *sql.DB
	dialect sqlstore.Dialect
}

func NewUserRepoSQL(db *sql.DB, dialect sqlstore.Dialect) *UserRepoSQL {
	return &UserRepoSQL{db: db, dialect: dialect}
}

var _ domain.UserRepository = (*UserRepoSQL)(nil)

// Open abre la conexión del dialecto; en sqlite se limita a una conexión de escritura.
func Open(dialect sqlstore.Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	if dialect == sqlstore.SQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}

// Store expone la tabla al listado con resultados avanzados. El hash de la contraseña no es un campo.
func Store(db *sql.DB, dialect sqlstore.Dialect) *sqlstore.Store {
	return sqlstore.NewStore(db, dialect, UsersTable,
		sqlstore.Column{Field: "id", Column: "id"},
		sqlstore.Column{Field: "name", Column: "name"},
		sqlstore.Column{Field: "email", Column: "email"},
		sqlstore.Column{Field: "role", Column: "role"},
		sqlstore.Column{Field: "createdAt", Column: "created_at"},
	)
}

func (r *UserRepoSQL) exec(ctx context.Context, q string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.dialect.Rebind(q), args...)
}

func (r *UserRepoSQL) Create(ctx context.Context, u *domain.User) error {
	_, err := r.exec(ctx,
		`INSERT INTO users (id, name, email, role, password, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, string(u.Role), u.PasswordHash, u.CreatedAt,
	)
	return mapWriteError(err)
}

func (r *UserRepoSQL) Update(ctx context.Context, u *domain.User) error {
	res, err := r.exec(ctx,
		`UPDATE users SET name = ?, email = ?, role = ?, password = ? WHERE id = ?`,
		u.Name, u.Email, string(u.Role), u.PasswordHash, u.ID.String(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectRow(res)
}

func (r *UserRepoSQL) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.exec(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *UserRepoSQL) DeleteAll(ctx context.Context) error {
	_, err := r.exec(ctx, `DELETE FROM users`)
	return err
}

func (r *UserRepoSQL) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id.String())
}

func (r *UserRepoSQL) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *UserRepoSQL) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	q := r.dialect.Rebind(`SELECT id, name, email, role, password, created_at FROM users ` + where)

	var u domain.User
	var idStr, role string
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&idStr, &u.Name, &u.Email, &role, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	parsedID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in DB: %w", err)
	}
	u.ID = parsedID
	u.Role = sharedDomain.Role(role)
	return &u, nil
}

// InitSchema crea la tabla users si no existe.
func (r *UserRepoSQL) InitSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT UNIQUE NOT NULL,
			role       TEXT NOT NULL DEFAULT 'user',
			password   TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`
	if r.dialect == sqlstore.Postgres {
		ddl = strings.Replace(ddl, "DATETIME", "TIMESTAMPTZ", 1)
	}
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// mapWriteError traduce la violación del índice único de email en ambos drivers.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrUserAlreadyExists
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return domain.ErrUserAlreadyExists
	}
	return err
}
