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

// CourseRepoMongoDB guarda el curso y su evento de outbox en la misma unidad de trabajo.
type CourseRepoMongoDB struct {
	uow     *sharedMongo.UnitOfWork
	courses *mongo.Collection
	outbox  *sharedMongo.OutboxRepo
}

func NewCourseRepoMongoDB(db *mongo.Database, uow *sharedMongo.UnitOfWork, outbox *sharedMongo.OutboxRepo) *CourseRepoMongoDB {
	return &CourseRepoMongoDB{uow: uow, courses: db.Collection(CoursesCollection), outbox: outbox}
}

var _ bootcampDomain.CourseRepository = (*CourseRepoMongoDB)(nil)

func (r *CourseRepoMongoDB) Create(ctx context.Context, c *bootcampDomain.Course, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		if _, err := r.courses.InsertOne(ctx, toMongoCourse(c)); err != nil {
			return mapWriteError(err)
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *CourseRepoMongoDB) Update(ctx context.Context, c *bootcampDomain.Course, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		mc := toMongoCourse(c)
		res, err := r.courses.ReplaceOne(ctx, bson.M{"_id": mc.ID}, mc)
		if err != nil {
			return mapWriteError(err)
		}
		if res.MatchedCount == 0 {
			return bootcampDomain.ErrCourseNotFound
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *CourseRepoMongoDB) Delete(ctx context.Context, id uuid.UUID, evt sharedDomain.OutboxEvent) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		res, err := r.courses.DeleteOne(ctx, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return bootcampDomain.ErrCourseNotFound
		}
		return r.outbox.Append(ctx, evt)
	})
}

func (r *CourseRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Course, error) {
	var mc mongoCourse
	if err := r.courses.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bootcampDomain.ErrCourseNotFound
		}
		return nil, err
	}
	return fromMongoCourse(&mc), nil
}

func (r *CourseRepoMongoDB) AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, int64, error) {
	return average(ctx, r.courses, bootcampID, "$tuition")
}

// average agrupa los documentos de un bootcamp y devuelve la media del campo y el total.
func average(ctx context.Context, coll *mongo.Collection, bootcampID uuid.UUID, field string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "bootcamp", Value: bootcampID.String()}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bootcamp"},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: field}}},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return 0, 0, cursor.Err()
	}
	var row struct {
		Avg float64 `bson:"avg"`
		N   int64   `bson:"n"`
	}
	if err := cursor.Decode(&row); err != nil {
		return 0, 0, err
	}
	return row.Avg, row.N, nil
}
