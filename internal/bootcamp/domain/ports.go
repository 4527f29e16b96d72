package domain

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// --- Repositorios ---

type BootcampRepository interface {
	Create(ctx context.Context, b *Bootcamp) error
	Update(ctx context.Context, b *Bootcamp) error
	// Delete elimina el bootcamp junto con sus cursos y reviews.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bootcamp, error)
	CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error)
	WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*Bootcamp, error)
	SetPhoto(ctx context.Context, id uuid.UUID, photo string) error
	SetAverageCost(ctx context.Context, id uuid.UUID, cost *float64) error
	SetAverageRating(ctx context.Context, id uuid.UUID, rating *float64) error
}

// Las escrituras de cursos y reviews guardan el evento de outbox en la misma unidad de trabajo.
type CourseRepository interface {
	Create(ctx context.Context, c *Course, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, c *Course, evt sharedDomain.OutboxEvent) error
	Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	// AverageTuition devuelve la media y el número de cursos del bootcamp.
	AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, r *Review, evt sharedDomain.OutboxEvent) error
	Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error)
}

// --- Servicios externos ---

// GeoResult es la respuesta normalizada de un geocoder.
type GeoResult struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
}

type Geocoder interface {
	// Geocode devuelve ErrAddressNotFound si la dirección no se resuelve.
	Geocode(ctx context.Context, address string) (*GeoResult, error)
}

type PhotoStorage interface {
	Save(ctx context.Context, name string, content io.Reader) error
}

// DailyRatingTrend es un punto de la serie diaria de valoraciones de un bootcamp.
type DailyRatingTrend struct {
	Day           time.Time `json:"day"`
	Reviews       int       `json:"reviews"`
	AverageRating float64   `json:"averageRating"`
}

type RatingAnalytics interface {
	LogReviewEvents(ctx context.Context, entries []ReviewLogEntry) error
	GetDailyTrend(ctx context.Context, bootcampID uuid.UUID, start, end time.Time) ([]DailyRatingTrend, error)
}

// ReviewLogEntry es una fila del histórico analítico de reviews.
type ReviewLogEntry struct {
	ReviewID   uuid.UUID
	BootcampID uuid.UUID
	UserID     uuid.UUID
	Rating     int
	EventType  string
	OccurredAt time.Time
}

// --- Claves de caché ---

func BootcampCacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("bootcamp:id:%s", id.String())
}
