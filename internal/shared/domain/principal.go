package domain

import (
	"errors"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

var (
	ErrNotAuthorized = errors.New("not authorized to access this route")
	ErrForbidden     = errors.New("not authorized to perform this action")
)

// Principal es el usuario autenticado de la petición, visto desde cualquier contexto.
type Principal struct {
	ID   uuid.UUID
	Name string
	Role Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanModify indica si el principal es el dueño del recurso o un admin.
func (p *Principal) CanModify(ownerID uuid.UUID) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == ownerID
}
