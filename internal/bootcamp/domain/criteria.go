package domain

import (
	"github.com/google/uuid"

	shared "github.com/davicafu/devcamper/internal/shared/domain"
)

// BootcampCriteria limita un listado a los documentos de un bootcamp.
type BootcampCriteria struct {
	ID uuid.UUID
}

func (c BootcampCriteria) ToConditions() []shared.Criterion {
	return shared.FieldEquals{Field: "bootcamp", Value: c.ID.String()}.ToConditions()
}
