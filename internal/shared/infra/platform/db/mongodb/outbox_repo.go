package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

const OutboxCollection = "outbox"

// OutboxRepo guarda y entrega los eventos pendientes de la colección outbox.
type OutboxRepo struct {
	coll *mongo.Collection
}

func NewOutboxRepo(db *mongo.Database) *OutboxRepo {
	return &OutboxRepo{coll: db.Collection(OutboxCollection)}
}

type mongoOutboxEvent struct {
	ID            string      `bson:"_id"`
	AggregateType string      `bson:"aggregateType"`
	AggregateID   string      `bson:"aggregateId"`
	EventType     string      `bson:"eventType"`
	Payload       interface{} `bson:"payload"`
	CreatedAt     time.Time   `bson:"createdAt"`
	Processed     bool        `bson:"processed"`
}

// Append inserta el evento. Se llama dentro de la misma unidad de trabajo que la entidad.
func (r *OutboxRepo) Append(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	payload, err := jsonShape(evt.Payload)
	if err != nil {
		return fmt.Errorf("outbox payload: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, mongoOutboxEvent{
		ID:            evt.ID.String(),
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       payload,
		CreatedAt:     evt.CreatedAt,
	})
	return err
}

// jsonShape guarda el payload con las claves y tipos de su forma JSON (uuids como string),
// que es lo que el relayer vuelve a deserializar.
func jsonShape(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"processed": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []sharedDomain.OutboxEvent
	for cursor.Next(ctx) {
		var mo mongoOutboxEvent
		if err := cursor.Decode(&mo); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(mo.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid outbox id %q: %w", mo.ID, err)
		}
		events = append(events, sharedDomain.OutboxEvent{
			ID:            id,
			AggregateType: mo.AggregateType,
			AggregateID:   mo.AggregateID,
			EventType:     mo.EventType,
			Payload:       normalizeValue(mo.Payload),
			CreatedAt:     mo.CreatedAt,
			Processed:     mo.Processed,
		})
	}
	return events, cursor.Err()
}

func (r *OutboxRepo) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"processed": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return nil
}

// EnsureIndexes crea el índice que usa el polling del relayer.
func (r *OutboxRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "processed", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

var _ sharedDomain.OutboxRepository = (*OutboxRepo)(nil)
