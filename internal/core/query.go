package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// QueryRequest is one page of a find or aggregate call against a document store.
type QueryRequest struct {
	Database   string
	Collection string
	Filter     bson.D
	Projection bson.D
	Sort       bson.D
	Pipeline   []bson.D
	Skip       int64
	Limit      int64
}

func (r QueryRequest) IsAggregation() bool {
	return len(r.Pipeline) > 0
}

type DocumentStore interface {
	Find(ctx context.Context, req QueryRequest) ([]bson.D, error)
	Aggregate(ctx context.Context, req QueryRequest) ([]bson.D, error)
}
