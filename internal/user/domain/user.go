package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

const MinPasswordLength = 6

// User representa una cuenta. El hash de la contraseña nunca se serializa.
type User struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         sharedDomain.Role `json:"role"`
	PasswordHash string            `json:"-"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func NewUser(name, email string, role sharedDomain.Role) (*User, error) {
	u := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if u.Role == "" {
		u.Role = sharedDomain.RoleUser
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("%w: please add a name", ErrInvalidUser)
	}
	if !ValidEmail(u.Email) {
		return fmt.Errorf("%w: please add a valid email", ErrInvalidUser)
	}
	switch u.Role {
	case sharedDomain.RoleUser, sharedDomain.RolePublisher, sharedDomain.RoleAdmin:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	return nil
}

// Principal es la vista del usuario que comparten los demás contextos.
func (u *User) Principal() *sharedDomain.Principal {
	return &sharedDomain.Principal{ID: u.ID, Name: u.Name, Role: u.Role}
}

func (u *User) PartitionKey() string {
	return u.ID.String()
}

// RegistrableRole indica si el rol puede elegirse en el registro público.
func RegistrableRole(r sharedDomain.Role) bool {
	return r == sharedDomain.RoleUser || r == sharedDomain.RolePublisher
}

func ValidatePassword(raw string) error {
	if len(raw) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, MinPasswordLength)
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail acepta solo direcciones simples (sin nombre visible).
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}
