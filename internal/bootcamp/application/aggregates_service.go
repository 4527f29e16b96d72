package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
)

// ErrAnalyticsDisabled indica que no hay almacén analítico configurado.
var ErrAnalyticsDisabled = fmt.Errorf("%w: rating analytics is not configured", sharedDomain.ErrNotFound)

// AggregatesService mantiene los datos derivados del bootcamp (coste y valoración medios)
// a partir de los eventos de cursos y reviews.
type AggregatesService struct {
	bootcamps bootcampDomain.BootcampRepository
	courses   bootcampDomain.CourseRepository
	reviews   bootcampDomain.ReviewRepository
	analytics bootcampDomain.RatingAnalytics // opcional
	cache     sharedCache.Cache
	log       *zap.Logger
}

func NewAggregatesService(
	bootcamps bootcampDomain.BootcampRepository,
	courses bootcampDomain.CourseRepository,
	reviews bootcampDomain.ReviewRepository,
	analytics bootcampDomain.RatingAnalytics,
	cache sharedCache.Cache,
	log *zap.Logger,
) *AggregatesService {
	return &AggregatesService{
		bootcamps: bootcamps,
		courses:   courses,
		reviews:   reviews,
		analytics: analytics,
		cache:     cache,
		log:       log,
	}
}

// RecalculateAverageCost fija averageCost = ceil(media/10)*10, o lo borra si no quedan cursos.
func (s *AggregatesService) RecalculateAverageCost(ctx context.Context, bootcampID uuid.UUID) error {
	avg, n, err := s.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		return err
	}

	var cost *float64
	if n > 0 {
		v := bootcampDomain.AverageCost(avg)
		cost = &v
	}
	if err := s.bootcamps.SetAverageCost(ctx, bootcampID, cost); err != nil {
		return ignoreMissingBootcamp(err)
	}
	sharedCache.AsyncCacheDelete(s.cache, bootcampDomain.BootcampCacheKeyByID(bootcampID), s.log)
	return nil
}

// RecalculateAverageRating fija averageRating a la media de las reviews, o lo borra si no hay.
func (s *AggregatesService) RecalculateAverageRating(ctx context.Context, bootcampID uuid.UUID) error {
	avg, n, err := s.reviews.AverageRating(ctx, bootcampID)
	if err != nil {
		return err
	}

	var rating *float64
	if n > 0 {
		rating = &avg
	}
	if err := s.bootcamps.SetAverageRating(ctx, bootcampID, rating); err != nil {
		return ignoreMissingBootcamp(err)
	}
	sharedCache.AsyncCacheDelete(s.cache, bootcampDomain.BootcampCacheKeyByID(bootcampID), s.log)
	return nil
}

// LogReviewEvent guarda el evento en el histórico analítico, si existe.
func (s *AggregatesService) LogReviewEvent(ctx context.Context, entry bootcampDomain.ReviewLogEntry) error {
	if s.analytics == nil {
		return nil
	}
	return s.analytics.LogReviewEvents(ctx, []bootcampDomain.ReviewLogEntry{entry})
}

// RatingTrend devuelve la serie diaria de valoraciones del bootcamp en [start, end).
func (s *AggregatesService) RatingTrend(ctx context.Context, bootcampID uuid.UUID, start, end time.Time) ([]bootcampDomain.DailyRatingTrend, error) {
	if s.analytics == nil {
		return nil, ErrAnalyticsDisabled
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", sharedDomain.ErrInvalidInput)
	}
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}
	return s.analytics.GetDailyTrend(ctx, bootcampID, start, end)
}

// Un bootcamp borrado en cascada puede llegar después de sus eventos: no es un error.
func ignoreMissingBootcamp(err error) error {
	if errors.Is(err, bootcampDomain.ErrBootcampNotFound) {
		return nil
	}
	return err
}
