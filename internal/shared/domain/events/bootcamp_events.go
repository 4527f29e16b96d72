package events

import (
	"time"

	"github.com/google/uuid"
)

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre contextos.

// CourseChanged se emite al crear, actualizar o borrar un curso.
type CourseChanged struct {
	ID         uuid.UUID `json:"id"`
	BootcampID uuid.UUID `json:"bootcampId"`
	Tuition    float64   `json:"tuition"`
}

// ReviewChanged se emite al crear, actualizar o borrar una review.
type ReviewChanged struct {
	ID         uuid.UUID `json:"id"`
	BootcampID uuid.UUID `json:"bootcampId"`
	UserID     uuid.UUID `json:"userId"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurredAt"`
}
