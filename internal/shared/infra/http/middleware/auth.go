package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

const (
	principalKey = "principal"
	TokenCookie  = "token"
)

// Authenticator valida un token y devuelve el usuario que lo emitió.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sharedDomain.Principal, error)
}

// Protect exige un token válido en la cabecera Authorization (Bearer) o en la cookie "token".
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token == "" {
			c.Error(sharedDomain.ErrNotAuthorized)
			c.Abort()
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			// el cliente solo ve "not authorized"; la causa queda en Meta para el log
			c.Error(sharedDomain.ErrNotAuthorized).SetMeta(err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Authorize restringe la ruta a los roles indicados. Debe ir después de Protect.
func Authorize(roles ...sharedDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.Error(sharedDomain.ErrNotAuthorized)
			c.Abort()
			return
		}
		for _, r := range roles {
			if principal.Role == r {
				c.Next()
				return
			}
		}
		c.Error(fmt.Errorf("%w: user role %s is not authorized to access this route", sharedDomain.ErrForbidden, principal.Role))
		c.Abort()
	}
}

// CurrentPrincipal devuelve el usuario autenticado por Protect.
func CurrentPrincipal(c *gin.Context) (*sharedDomain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*sharedDomain.Principal)
	return p, ok && p != nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
