package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/pkg/utils"
)

const serverErrorMessage = "Server Error"

// ErrorHandler es el único punto donde un error se convierte en respuesta.
// Los handlers hacen c.Error(err) y abortan; los panics se recuperan aquí también.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("💥 Panic recuperado",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				utils.SendError(c, http.StatusInternalServerError, serverErrorMessage)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err
		status := StatusFor(err)
		message := err.Error()
		if cause, ok := last.Meta.(error); ok {
			log.Debug("🔒 Petición rechazada",
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Error(cause),
			)
		}
		if status >= http.StatusInternalServerError {
			log.Error("❌ Error no controlado",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			message = serverErrorMessage
		}

		utils.SendError(c, status, message)
	}
}

// StatusFor traduce la taxonomía de errores a un status HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, sharedDomain.ErrNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, sharedDomain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, sharedDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sharedDomain.ErrInvalidInput),
		errors.Is(err, sharedDomain.ErrDuplicate),
		errors.Is(err, query.ErrInvalidQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// BindError envuelve un error de binding/validación de gin como entrada inválida.
func BindError(err error) error {
	return fmt.Errorf("%w: %v", sharedDomain.ErrInvalidInput, err)
}

var errMissingResults = errors.New("advanced results middleware not configured for this route")
