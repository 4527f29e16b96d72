package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedMongo "github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
)

// BootcampRepoMongoDB implementa BootcampRepository.
type BootcampRepoMongoDB struct {
	uow       *sharedMongo.UnitOfWork
	bootcamps *mongo.Collection
	courses   *mongo.Collection
	reviews   *mongo.Collection
}

func NewBootcampRepoMongoDB(db *mongo.Database, uow *sharedMongo.UnitOfWork) *BootcampRepoMongoDB {
	return &BootcampRepoMongoDB{
		uow:       uow,
		bootcamps: db.Collection(BootcampsCollection),
		courses:   db.Collection(CoursesCollection),
		reviews:   db.Collection(ReviewsCollection),
	}
}

var _ bootcampDomain.BootcampRepository = (*BootcampRepoMongoDB)(nil)

func (r *BootcampRepoMongoDB) Create(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	_, err := r.bootcamps.InsertOne(ctx, toMongoBootcamp(b))
	return mapWriteError(err)
}

func (r *BootcampRepoMongoDB) Update(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	mb := toMongoBootcamp(b)
	res, err := r.bootcamps.ReplaceOne(ctx, bson.M{"_id": mb.ID}, mb)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return bootcampDomain.ErrBootcampNotFound
	}
	return nil
}

// Delete borra cursos y reviews del bootcamp antes que el propio bootcamp, en la misma unidad de trabajo.
func (r *BootcampRepoMongoDB) Delete(ctx context.Context, id uuid.UUID) error {
	return r.uow.Do(ctx, func(ctx context.Context) error {
		ref := bson.M{"bootcamp": id.String()}
		if _, err := r.courses.DeleteMany(ctx, ref); err != nil {
			return err
		}
		if _, err := r.reviews.DeleteMany(ctx, ref); err != nil {
			return err
		}
		res, err := r.bootcamps.DeleteOne(ctx, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return bootcampDomain.ErrBootcampNotFound
		}
		return nil
	})
}

func (r *BootcampRepoMongoDB) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Bootcamp, error) {
	var mb mongoBootcamp
	if err := r.bootcamps.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bootcampDomain.ErrBootcampNotFound
		}
		return nil, err
	}
	return fromMongoBootcamp(&mb), nil
}

func (r *BootcampRepoMongoDB) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	return r.bootcamps.CountDocuments(ctx, bson.M{"user": owner.String()})
}

// WithinRadius usa $geoWithin/$centerSphere; radians = millas / radio terrestre.
func (r *BootcampRepoMongoDB) WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*bootcampDomain.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radians},
			},
		},
	}

	cursor, err := r.bootcamps.Find(ctx, filter)
	if err != nil {
		return nil, sharedMongo.MapQueryError(err)
	}
	defer cursor.Close(ctx)

	out := []*bootcampDomain.Bootcamp{}
	for cursor.Next(ctx) {
		var mb mongoBootcamp
		if err := cursor.Decode(&mb); err != nil {
			return nil, err
		}
		out = append(out, fromMongoBootcamp(&mb))
	}
	return out, cursor.Err()
}

func (r *BootcampRepoMongoDB) SetPhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.set(ctx, id, bson.M{"$set": bson.M{"photo": photo}})
}

func (r *BootcampRepoMongoDB) SetAverageCost(ctx context.Context, id uuid.UUID, cost *float64) error {
	return r.set(ctx, id, setOrUnset("averageCost", cost))
}

func (r *BootcampRepoMongoDB) SetAverageRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	return r.set(ctx, id, setOrUnset("averageRating", rating))
}

func (r *BootcampRepoMongoDB) set(ctx context.Context, id uuid.UUID, update bson.M) error {
	res, err := r.bootcamps.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return bootcampDomain.ErrBootcampNotFound
	}
	return nil
}

func setOrUnset(field string, v *float64) bson.M {
	if v == nil {
		return bson.M{"$unset": bson.M{field: ""}}
	}
	return bson.M{"$set": bson.M{field: *v}}
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if sharedMongo.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %v", sharedDomain.ErrDuplicate, err)
	}
	return err
}
