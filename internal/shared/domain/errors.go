package domain

import "errors"

// Categorías de error comunes a todos los contextos. Los errores de cada
// contexto las envuelven (fmt.Errorf("bootcamp %w", ErrNotFound)) y el
// manejador HTTP central decide el status con errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate field value entered")
)
