package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	userDomain "github.com/davicafu/devcamper/internal/user/domain"
)

// InMemoryUserRepo es un repositorio de usuarios en memoria con email único.
type InMemoryUserRepo struct {
	mu    sync.RWMutex
	Users map[uuid.UUID]userDomain.User
	Err   error
}

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{Users: map[uuid.UUID]userDomain.User{}}
}

func (r *InMemoryUserRepo) Create(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.Users {
		if existing.Email == u.Email || existing.ID == u.ID {
			return userDomain.ErrUserAlreadyExists
		}
	}
	r.Users[u.ID] = *u
	return nil
}

func (r *InMemoryUserRepo) Update(ctx context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[u.ID]; !ok {
		return userDomain.ErrUserNotFound
	}
	for id, existing := range r.Users {
		if id != u.ID && existing.Email == u.Email {
			return userDomain.ErrUserAlreadyExists
		}
	}
	r.Users[u.ID] = *u
	return nil
}

func (r *InMemoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[id]; !ok {
		return userDomain.ErrUserNotFound
	}
	delete(r.Users, id)
	return nil
}

func (r *InMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.Users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return &u, nil
}

func (r *InMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (r *InMemoryUserRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Users = map[uuid.UUID]userDomain.User{}
	return nil
}

// PlainHasher evita el coste de bcrypt en los tests.
type PlainHasher struct{}

func (PlainHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

func (PlainHasher) Compare(hash, raw string) bool { return hash == "hashed:"+raw }
