package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// Códigos de servidor que indican un filtro/orden/proyección mal formado.
const (
	codeBadValue      = 2
	codeFailedToParse = 9
	codeTypeMismatch  = 14
)

// MapQueryError traduce los errores del servidor a la taxonomía del query port.
func MapQueryError(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeBadValue) || se.HasErrorCode(codeFailedToParse) || se.HasErrorCode(codeTypeMismatch)) {
		return fmt.Errorf("%w: %v", query.ErrInvalidQuery, err)
	}
	return err
}

// IsDuplicateKey indica si la escritura violó un índice único.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
