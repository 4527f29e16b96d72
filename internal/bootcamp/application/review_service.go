package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/domain/events"
)

type ReviewService struct {
	reviews   bootcampDomain.ReviewRepository
	bootcamps bootcampDomain.BootcampRepository
	log       *zap.Logger
}

func NewReviewService(reviews bootcampDomain.ReviewRepository, bootcamps bootcampDomain.BootcampRepository, log *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, bootcamps: bootcamps, log: log}
}

// AddReview crea la review del principal. El repositorio rechaza una segunda review del mismo usuario.
func (s *ReviewService) AddReview(ctx context.Context, p *sharedDomain.Principal, bootcampID uuid.UUID, in bootcampDomain.ReviewInput) (*bootcampDomain.Review, error) {
	if p == nil {
		return nil, sharedDomain.ErrNotAuthorized
	}
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}

	r, err := bootcampDomain.NewReview(in, b.ID, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, r, reviewEvent(bootcampDomain.ReviewCreated, r)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*bootcampDomain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

func (s *ReviewService) UpdateReview(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID, in bootcampDomain.ReviewInput) (*bootcampDomain.Review, error) {
	r, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(in); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, r, reviewEvent(bootcampDomain.ReviewUpdated, r)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID) error {
	r, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id, reviewEvent(bootcampDomain.ReviewDeleted, r))
}

func (s *ReviewService) owned(ctx context.Context, p *sharedDomain.Principal, id uuid.UUID) (*bootcampDomain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(r.UserID) {
		return nil, fmt.Errorf("%w: not authorized to update review", sharedDomain.ErrForbidden)
	}
	return r, nil
}

// Import guarda una review ya validada sin comprobar permisos (seeder).
func (s *ReviewService) Import(ctx context.Context, r *bootcampDomain.Review) error {
	return s.reviews.Create(ctx, r, reviewEvent(bootcampDomain.ReviewCreated, r))
}

func reviewEvent(eventType string, r *bootcampDomain.Review) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent("review", r.BootcampID.String(), eventType, sharedEvents.ReviewChanged{
		ID:         r.ID,
		BootcampID: r.BootcampID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		OccurredAt: time.Now().UTC(),
	})
}
