package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/user/domain"
)

var errInvalidToken = errors.New("invalid token")

// Claims del token: el id del usuario y su rol en el momento de emitirlo.
type Claims struct {
	ID   string            `json:"id"`
	Role sharedDomain.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserLookup es lo que necesita el servicio de tokens para resolver el usuario.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TokenService firma tokens HS256 y los valida para el middleware Protect.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, users UserLookup) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, users: users, now: time.Now}
}

func (s *TokenService) Issue(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		ID:   u.ID.String(),
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate valida firma y expiración y carga el usuario actual: el rol se toma
// de la base de datos, no del token, para que un cambio de rol tenga efecto inmediato.
func (s *TokenService) Authenticate(ctx context.Context, token string) (*sharedDomain.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, errInvalidToken
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}
