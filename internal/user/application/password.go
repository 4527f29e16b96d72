package application

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/davicafu/devcamper/internal/user/domain"
)

// DefaultBcryptCost es el coste usado para las contraseñas nuevas.
const DefaultBcryptCost = 10

// BcryptHasher implementa domain.PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Compare(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

var _ domain.PasswordHasher = (*BcryptHasher)(nil)
