package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedMongo "github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
)

// EnsureIndexes crea los índices que necesitan las búsquedas geográficas y las restricciones de unicidad.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	models := map[string][]mongo.IndexModel{
		BootcampsCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		CoursesCollection: {
			{Keys: bson.D{{Key: "bootcamp", Value: 1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, idx := range models {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("indexes %s: %w", coll, err)
		}
	}
	return nil
}

// Stores devuelve las fuentes de consulta avanzada de cada colección.
func Stores(db *mongo.Database) (bootcamps, courses, reviews *sharedMongo.Store) {
	return sharedMongo.NewStore(db.Collection(BootcampsCollection)),
		sharedMongo.NewStore(db.Collection(CoursesCollection)),
		sharedMongo.NewStore(db.Collection(ReviewsCollection))
}
