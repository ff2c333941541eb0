package mongo

import (
	"context"
	"fmt"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client *mongo.Client
}

func NewStore(client *mongo.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Find(ctx context.Context, req core.QueryRequest) ([]bson.D, error) {
	coll := s.client.Database(req.Database).Collection(req.Collection)

	filter := req.Filter
	if filter == nil {
		filter = bson.D{}
	}

	opts := options.Find().SetSkip(req.Skip).SetLimit(req.Limit)
	if len(req.Projection) > 0 {
		opts.SetProjection(req.Projection)
	}
	if len(req.Sort) > 0 {
		opts.SetSort(req.Sort)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	return readAll(ctx, cur)
}

// Aggregate runs the pipeline with sort, skip and limit appended as stages.
func (s *Store) Aggregate(ctx context.Context, req core.QueryRequest) ([]bson.D, error) {
	coll := s.client.Database(req.Database).Collection(req.Collection)

	cur, err := coll.Aggregate(ctx, PagedPipeline(req))
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return readAll(ctx, cur)
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// PagedPipeline returns the request pipeline followed by $sort, $skip and
// $limit stages. The request pipeline is not modified.
func PagedPipeline(req core.QueryRequest) mongo.Pipeline {
	pipeline := make(mongo.Pipeline, 0, len(req.Pipeline)+3)
	pipeline = append(pipeline, req.Pipeline...)

	if len(req.Sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: req.Sort}})
	}
	if req.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: req.Skip}})
	}
	if req.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: req.Limit}})
	}
	return pipeline
}

func readAll(ctx context.Context, cur *mongo.Cursor) ([]bson.D, error) {
	defer cur.Close(ctx)

	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}

	log.FromCtx(ctx).Debug().Int("count", len(docs)).Msg("loaded documents")
	return docs, nil
}
