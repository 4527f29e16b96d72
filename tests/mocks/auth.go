package mocks

import (
	"context"
	"errors"
	"sync"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// StaticAuthenticator resuelve tokens opacos contra un mapa fijo.
type StaticAuthenticator struct {
	mu     sync.RWMutex
	tokens map[string]*sharedDomain.Principal
}

func NewStaticAuthenticator() *StaticAuthenticator {
	return &StaticAuthenticator{tokens: map[string]*sharedDomain.Principal{}}
}

// Issue registra el principal y devuelve el token que lo identifica.
func (a *StaticAuthenticator) Issue(token string, p *sharedDomain.Principal) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = p
	return token
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, token string) (*sharedDomain.Principal, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.tokens[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return p, nil
}
