package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
)

// pathID lee :id; un id mal formado se responde como recurso inexistente.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Error(fmt.Errorf("resource with id of %s %w", raw, sharedDomain.ErrNotFound))
		c.Abort()
		return uuid.Nil, false
	}
	return id, true
}

func principal(c *gin.Context) *sharedDomain.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// fail empuja el error al ErrorHandler central.
func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// bootcampScope limita los listados anidados (/bootcamps/:id/courses) al bootcamp de la ruta.
func bootcampScope(c *gin.Context) (sharedDomain.Criteria, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("resource with id of %s %w", raw, sharedDomain.ErrNotFound)
	}
	return bootcampDomain.BootcampCriteria{ID: id}, nil
}

// listResponse es la forma de los listados sin paginar (radio).
type listResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}
