package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

const advancedResultsKey = "advancedResults"

// ScopeFunc deriva de la petición un criterio fijo que se combina con el filtro
// del cliente, ej. el bootcamp de /bootcamps/:id/courses.
type ScopeFunc func(c *gin.Context) (sharedDomain.Criteria, error)

// AdvancedResults ejecuta el listado filtrado/paginado y deja el sobre en el contexto.
func AdvancedResults(store query.Store, populate *query.Populate, opts ...query.ParseOption) gin.HandlerFunc {
	return ScopedResults(store, nil, populate, opts...)
}

func ScopedResults(store query.Store, scope ScopeFunc, populate *query.Populate, opts ...query.ParseOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria sharedDomain.Criteria
		if scope != nil {
			var err error
			if criteria, err = scope(c); err != nil {
				c.Error(err)
				c.Abort()
				return
			}
		}

		req := query.Parse(c.Request.URL.Query(), opts...)
		env, err := query.Assemble(c.Request.Context(), store, req, criteria, populate)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(advancedResultsKey, env)
		c.Next()
	}
}

// GetAdvancedResults recupera el sobre calculado por AdvancedResults.
func GetAdvancedResults(c *gin.Context) (*query.Envelope, bool) {
	v, ok := c.Get(advancedResultsKey)
	if !ok {
		return nil, false
	}
	env, ok := v.(*query.Envelope)
	return env, ok
}

// RespondAdvancedResults es el handler final de las rutas de listado.
func RespondAdvancedResults(c *gin.Context) {
	env, ok := GetAdvancedResults(c)
	if !ok {
		c.Error(errMissingResults)
		return
	}
	c.JSON(http.StatusOK, env)
}
