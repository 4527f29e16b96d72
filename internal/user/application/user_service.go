package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
	"github.com/davicafu/devcamper/internal/user/domain"
)

// UserService agrupa registro, login y la gestión de usuarios del admin.
type UserService struct {
	repo     domain.UserRepository
	hasher   domain.PasswordHasher
	cache    sharedCache.Cache
	cacheTTL int
	log      *zap.Logger
}

func NewUserService(repo domain.UserRepository, hasher domain.PasswordHasher, cache sharedCache.Cache, cacheTTL time.Duration, log *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		cache:    cache,
		cacheTTL: int(cacheTTL.Seconds()),
		log:      log,
	}
}

// NewUserInput son los datos de alta; Role vacío equivale a "user".
type NewUserInput struct {
	Name     string
	Email    string
	Password string
	Role     sharedDomain.Role
	ID       uuid.UUID // opcional: el seeder conserva los ids de sus ficheros
}

// UserUpdate lleva solo los campos a cambiar.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *sharedDomain.Role
}

// Register es el alta pública: el rol admin no se puede elegir.
func (s *UserService) Register(ctx context.Context, in NewUserInput) (*domain.User, error) {
	if in.Role != "" && !domain.RegistrableRole(in.Role) {
		return nil, fmt.Errorf("%w (%s)", domain.ErrRoleNotAllowed, in.Role)
	}
	return s.CreateUser(ctx, in)
}

// CreateUser es el alta sin restricción de rol (admin y seeder).
func (s *UserService) CreateUser(ctx context.Context, in NewUserInput) (*domain.User, error) {
	u, err := domain.NewUser(in.Name, in.Email, in.Role)
	if err != nil {
		return nil, err
	}
	if in.ID != uuid.Nil {
		u.ID = in.ID
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if u.PasswordHash, err = s.hasher.Hash(in.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			s.log.Error("Failed to create user", zap.String("email", u.Email), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

// Login valida email y contraseña. No distingue email inexistente de contraseña errónea.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please provide an email and password", sharedDomain.ErrInvalidInput)
	}
	u, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// GetUser usa cache-aside: lo llama Protect en cada petición autenticada.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	key := domain.CacheKeyByID(id)
	if s.cache != nil {
		var cached domain.User
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	var user *domain.User
	var notFound error
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errRetry error
		user, errRetry = s.repo.GetByID(ctx, id)
		if errors.Is(errRetry, domain.ErrUserNotFound) {
			notFound = errRetry
			return nil
		}
		return errRetry
	})
	if notFound != nil {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, key, user, s.cacheTTL, s.log)
	return user, nil
}

// UpdateUser aplica los cambios del admin (incluido el rol).
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, upd UserUpdate) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = domain.NormalizeEmail(*upd.Email)
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	return u, s.save(ctx, u)
}

// UpdateDetails deja al propio usuario cambiar nombre y email, nunca el rol.
func (s *UserService) UpdateDetails(ctx context.Context, p *sharedDomain.Principal, name, email *string) (*domain.User, error) {
	if p == nil {
		return nil, sharedDomain.ErrNotAuthorized
	}
	return s.UpdateUser(ctx, p.ID, UserUpdate{Name: name, Email: email})
}

// UpdatePassword exige la contraseña actual.
func (s *UserService) UpdatePassword(ctx context.Context, p *sharedDomain.Principal, current, next string) (*domain.User, error) {
	if p == nil {
		return nil, sharedDomain.ErrNotAuthorized
	}
	u, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(u.PasswordHash, current) {
		return nil, fmt.Errorf("%w: password is incorrect", sharedDomain.ErrNotAuthorized)
	}
	if err := domain.ValidatePassword(next); err != nil {
		return nil, err
	}
	if u.PasswordHash, err = s.hasher.Hash(next); err != nil {
		return nil, err
	}
	return u, s.save(ctx, u)
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(s.cache, domain.CacheKeyByID(id), s.log)
	return nil
}

func (s *UserService) save(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(s.cache, domain.CacheKeyByID(u.ID), s.log)
	return nil
}
