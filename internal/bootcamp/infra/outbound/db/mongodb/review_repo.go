package mongodb

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedMongo "github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
)

type ReviewRepoMongoDB struct {
	uow     *sharedMongo.UnitOfWork
	reviews *mongo.Collection
	outbox  *sharedMongo.OutboxRepo
}

func NewReviewRepoMongoDB(db *mongo.Database, uow *sharedMongo.UnitOfWork, outbox *sharedMongo.OutboxRepo) *ReviewRepoMongoDB {
	return &ReviewRepoMongoDB{uow: uow, reviews: db.Collection(ReviewsCollection), outbox: outbox}
}

var _ bootcampDomain.ReviewRepository = (*ReviewRepoMongoDB)(nil)

func (r *ReviewRepoMongoDB) Create(ctx context.Context, rv *bootcampDomain.Review, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		if _, err := r.reviews.InsertOne(ctx, toMongoReview(rv)); err != nil {
			return mapReviewError(err)
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *ReviewRepoMongoDB) Update(ctx context.Context, rv *bootcampDomain.Review, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		mr := toMongoReview(rv)
		res, err := r.reviews.ReplaceOne(ctx, bson.M{"_id": mr.ID}, mr)
		if err != nil {
			return mapReviewError(err)
		}
		if res.MatchedCount == 0 {
			return bootcampDomain.ErrReviewNotFound
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *ReviewRepoMongoDB) Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		res, err := r.reviews.DeleteOne(ctx, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return bootcampDomain.ErrReviewNotFound
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *ReviewRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Review, error) {
	var mr mongoReview
	if err := r.reviews.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bootcampDomain.ErrReviewNotFound
		}
		return nil, err
	}
	return fromMongoReview(&mr), nil
}

func (r *ReviewRepoMongoDB) AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error) {
	return average(ctx, r.reviews, bootcampID, "$rating")
}

// Índice único (bootcamp, user): una review por usuario y bootcamp.
func mapReviewError(err error) error {
	if sharedMongo.IsDuplicateKey(err) {
		return bootcampDomain.ErrAlreadyReviewed
	}
	return err
}
