package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrUserNotFound       = fmt.Errorf("user %w", sharedDomain.ErrNotFound)
	ErrUserAlreadyExists  = fmt.Errorf("%w: email already registered", sharedDomain.ErrDuplicate)
	ErrInvalidUser        = fmt.Errorf("%w: user", sharedDomain.ErrInvalidInput)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", sharedDomain.ErrNotAuthorized)
	ErrRoleNotAllowed     = fmt.Errorf("%w: role can not be chosen on registration", sharedDomain.ErrInvalidInput)
)

// ---------- Interfaces (Ports) ----------

type UserRepository interface {
	// Create devuelve ErrUserAlreadyExists si el email ya existe.
	Create(ctx context.Context, u *User) error
	// Update devuelve ErrUserNotFound si no existe.
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// DeleteAll vacía la tabla (seeder).
	DeleteAll(ctx context.Context) error
}

// PasswordHasher aísla el algoritmo de hash de las contraseñas.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Compare(hash, raw string) bool
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("user:id:%s", id.String())
}
