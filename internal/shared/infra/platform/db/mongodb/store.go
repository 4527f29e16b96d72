package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/query"
)

// Store implementa query.Store sobre una colección de MongoDB.
type Store struct {
	coll *mongo.Collection
}

var _ query.Store = (*Store)(nil)

func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) Count(ctx context.Context, filter sharedDomain.Criteria) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, CriteriaToFilter(filter))
	if err != nil {
		return 0, MapQueryError(err)
	}
	return n, nil
}

// Find lanza una única consulta: find simple o, si hay populate, un aggregate con $lookup.
func (s *Store) Find(ctx context.Context, filter sharedDomain.Criteria, opts query.FindOptions) (query.Cursor, error) {
	if wantsPopulate(opts) {
		return s.aggregate(ctx, filter, opts)
	}

	findOpts := options.Find().
		SetSort(SortToBSON(opts.Sort)).
		SetSkip(opts.Skip)
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if proj := ProjectionToBSON(opts.Projection); proj != nil {
		findOpts.SetProjection(proj)
	}

	cur, err := s.coll.Find(ctx, CriteriaToFilter(filter), findOpts)
	if err != nil {
		return nil, MapQueryError(err)
	}
	return &recordCursor{cur: cur}, nil
}

func (s *Store) aggregate(ctx context.Context, filter sharedDomain.Criteria, opts query.FindOptions) (query.Cursor, error) {
	cur, err := s.coll.Aggregate(ctx, PopulatePipeline(filter, opts))
	if err != nil {
		return nil, MapQueryError(err)
	}
	return &recordCursor{cur: cur}, nil
}

// PopulatePipeline construye $match → $sort → $skip → $limit → $lookup → $unwind → $project.
// El lookup se hace después de paginar para no unir documentos que se descartan.
func PopulatePipeline(filter sharedDomain.Criteria, opts query.FindOptions) mongo.Pipeline {
	p := opts.Populate

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: CriteriaToFilter(filter)}},
		{{Key: "$sort", Value: SortToBSON(opts.Sort)}},
		{{Key: "$skip", Value: opts.Skip}},
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Limit}})
	}

	lookupPipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$_id", "$$ref"}},
		}}}}},
	}
	if proj := ProjectionToBSON(p.Select); proj != nil {
		lookupPipeline = append(lookupPipeline, bson.D{{Key: "$project", Value: proj}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: p.From},
			{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + p.Path}}},
			{Key: "pipeline", Value: lookupPipeline},
			{Key: "as", Value: p.Path},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + p.Path},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)

	if proj := ProjectionToBSON(opts.Projection); proj != nil {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: proj}})
	}
	return pipeline
}

// wantsPopulate es falso si un select explícito deja fuera el campo a poblar.
func wantsPopulate(opts query.FindOptions) bool {
	if opts.Populate == nil {
		return false
	}
	return len(opts.Projection) == 0 || hasField(opts.Projection, opts.Populate.Path)
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
