package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
)

// AggregatesService es lo que necesita el consumer para mantener los campos derivados del bootcamp.
type AggregatesService interface {
	RecalculateAverageCost(ctx context.Context, bootcampID uuid.UUID) error
	RecalculateAverageRating(ctx context.Context, bootcampID uuid.UUID) error
	LogReviewEvent(ctx context.Context, entry bootcampDomain.ReviewLogEntry) error
}

// BootcampConsumer recalcula averageCost/averageRating al llegar eventos de cursos y reviews.
// Recalcular desde la base de datos es idempotente: un evento duplicado no cambia el resultado.
type BootcampConsumer struct {
	service AggregatesService
	timeout time.Duration
	log     *zap.Logger
}

func NewBootcampConsumer(service AggregatesService, logger *zap.Logger) *BootcampConsumer {
	return &BootcampConsumer{service: service, timeout: 2 * time.Second, log: logger}
}

var _ bus.MessageHandler = (*BootcampConsumer)(nil)

func (c *BootcampConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case bootcampDomain.CourseCreated, bootcampDomain.CourseUpdated, bootcampDomain.CourseDeleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.CourseChanged](c.log, base.Data, func(evt sharedEvents.CourseChanged) {
			c.withContext(ctx, evt.BootcampID, func(ctx context.Context) error {
				return c.service.RecalculateAverageCost(ctx, evt.BootcampID)
			}, "💰 averageCost recalculado", base.Type)
		})

	case bootcampDomain.ReviewCreated, bootcampDomain.ReviewUpdated, bootcampDomain.ReviewDeleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.ReviewChanged](c.log, base.Data, func(evt sharedEvents.ReviewChanged) {
			c.withContext(ctx, evt.BootcampID, func(ctx context.Context) error {
				if err := c.service.RecalculateAverageRating(ctx, evt.BootcampID); err != nil {
					return err
				}
				// El histórico analítico no debe bloquear el recálculo.
				if err := c.service.LogReviewEvent(ctx, reviewLogEntry(base, evt)); err != nil {
					c.log.Warn("Failed to log review event", zap.String("review_id", evt.ID.String()), zap.Error(err))
				}
				return nil
			}, "⭐ averageRating recalculado", base.Type)
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

func reviewLogEntry(base sharedEvents.IntegrationEvent, evt sharedEvents.ReviewChanged) bootcampDomain.ReviewLogEntry {
	occurred := evt.OccurredAt
	if occurred.IsZero() {
		occurred = base.Timestamp
	}
	return bootcampDomain.ReviewLogEntry{
		ReviewID:   evt.ID,
		BootcampID: evt.BootcampID,
		UserID:     evt.UserID,
		Rating:     evt.Rating,
		EventType:  base.Type,
		OccurredAt: occurred,
	}
}

// withContext ejecuta la acción con un timeout propio y deja constancia en el log.
func (c *BootcampConsumer) withContext(ctx context.Context, bootcampID uuid.UUID, action func(ctx context.Context) error, successMsg, eventType string) {
	ctxEvt, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := action(ctxEvt); err != nil {
		c.log.Warn("Failed to process bootcamp event",
			zap.String("bootcamp_id", bootcampID.String()),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	c.log.Info(successMsg,
		zap.String("bootcamp_id", bootcampID.String()),
		zap.String("type", eventType),
	)
}
