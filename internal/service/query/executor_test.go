package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	docs []bson.D
	err  error

	mu       sync.Mutex
	requests []core.QueryRequest
	calls    []string
}

func (f *fakeStore) Find(ctx context.Context, req core.QueryRequest) ([]bson.D, error) {
	return f.serve("find", req)
}

func (f *fakeStore) Aggregate(ctx context.Context, req core.QueryRequest) ([]bson.D, error) {
	return f.serve("aggregate", req)
}

func (f *fakeStore) serve(kind string, req core.QueryRequest) ([]bson.D, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeStore) last() core.QueryRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeJournal struct {
	entries []core.JournalEntry
	err     error
}

func (j *fakeJournal) Record(ctx context.Context, entry core.JournalEntry) error {
	j.entries = append(j.entries, entry)
	return j.err
}

func (j *fakeJournal) Recent(ctx context.Context, limit int) ([]core.JournalEntry, error) {
	return j.entries, nil
}

func target() Description {
	return Description{Database: "sales", Collection: "orders"}
}

func TestExecutor_ClampsPageSize(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{{Key: "a", Value: 1}}}}
	exec := NewExecutor(store, nil)

	exec.Execute(context.Background(), target(), 0, 1000)
	assert.Equal(t, int64(MaxPageSize), store.last().Limit)
	assert.Equal(t, int64(0), store.last().Skip)

	exec.Execute(context.Background(), target(), 2, 1000)
	assert.Equal(t, int64(MaxPageSize), store.last().Limit)
	assert.Equal(t, int64(2*MaxPageSize), store.last().Skip)

	exec.Execute(context.Background(), target(), 3, 10)
	assert.Equal(t, int64(10), store.last().Limit)
	assert.Equal(t, int64(30), store.last().Skip)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 60, ClampPageSize(1000))
	assert.Equal(t, 60, ClampPageSize(60))
	assert.Equal(t, 20, ClampPageSize(20))
	assert.Equal(t, 60, ClampPageSize(0))
	assert.Equal(t, 60, ClampPageSize(-5))
}

func TestExecutor_NoDataFound(t *testing.T) {
	exec := NewExecutor(&fakeStore{}, nil)

	out := exec.Execute(context.Background(), target(), 0, 60)
	assert.True(t, out.Empty())
	assert.False(t, out.Failed())
	assert.Equal(t, NoDataFound, out.Text)
	assert.Equal(t, NoDataFound, out.String())
}

func TestExecutor_StoreError(t *testing.T) {
	exec := NewExecutor(&fakeStore{err: errors.New("connection refused")}, nil)

	out := exec.Execute(context.Background(), target(), 0, 60)
	assert.True(t, out.Failed())
	assert.False(t, out.Empty())
	assert.Equal(t, "Error executing query: connection refused", out.Text)
	assert.NotEqual(t, NoDataFound, out.Text)
}

func TestExecutor_ParseError(t *testing.T) {
	store := &fakeStore{}
	exec := NewExecutor(store, nil)

	out := exec.ExecuteText(context.Background(), "{not json", 0, 60)
	require.True(t, out.Failed())
	assert.Contains(t, out.Text, "Error executing query:")

	var perr *ParseError
	assert.True(t, errors.As(out.Err, &perr))
	assert.Empty(t, store.calls)
}

func TestExecutor_AggregationSelected(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{{Key: "n", Value: 3}}}}
	exec := NewExecutor(store, nil)

	out := exec.ExecuteText(context.Background(),
		`{"database": "sales", "collection": "orders", "aggregation": [{"$match": {}}], "sort": {"n": -1}}`, 0, 60)
	require.False(t, out.Failed())

	assert.Equal(t, []string{"aggregate"}, store.calls)
	assert.Len(t, store.last().Pipeline, 1)
	assert.Equal(t, bson.D{{Key: "n", Value: int32(-1)}}, store.last().Sort)
}

func TestExecutor_DescriptionPaging(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{{Key: "a", Value: 1}}}}
	exec := NewExecutor(store, nil)

	exec.ExecuteText(context.Background(),
		`{"database": "sales", "collection": "orders", "page": 1, "limit": 500}`, 0, 60)
	assert.Equal(t, int64(60), store.last().Limit)
	assert.Equal(t, int64(60), store.last().Skip)

	exec.ExecuteText(context.Background(),
		`{"database": "sales", "collection": "orders", "limit": 5}`, 0, 60)
	assert.Equal(t, int64(5), store.last().Limit)
}

func TestExecutor_StringifiesIDs(t *testing.T) {
	oid := primitive.NewObjectID()
	store := &fakeStore{docs: []bson.D{
		{{Key: "_id", Value: oid}, {Key: "name", Value: "a"}},
		{{Key: "_id", Value: int32(7)}},
		{{Key: "_id", Value: "already"}},
	}}
	exec := NewExecutor(store, nil)

	out := exec.Execute(context.Background(), target(), 0, 60)
	require.Len(t, out.Records, 3)
	assert.Equal(t, oid.Hex(), out.Records[0][0].Value)
	assert.Equal(t, "7", out.Records[1][0].Value)
	assert.Equal(t, "already", out.Records[2][0].Value)
	assert.Contains(t, out.String(), oid.Hex())
}

func TestExecutor_Journal(t *testing.T) {
	journal := &fakeJournal{err: errors.New("disk full")}
	exec := NewExecutor(&fakeStore{}, journal)

	out := exec.Execute(context.Background(), target(), 0, 100)
	assert.Equal(t, NoDataFound, out.Text, "journal failures must not change the outcome")

	exec.ExecuteText(context.Background(), "[]", 0, 10)

	require.Len(t, journal.entries, 2)
	assert.Equal(t, core.JournalEmpty, journal.entries[0].Status)
	assert.Equal(t, "sales", journal.entries[0].Database)
	assert.Equal(t, 60, journal.entries[0].PageSize)
	assert.Equal(t, core.JournalInvalid, journal.entries[1].Status)
	assert.NotEmpty(t, journal.entries[1].Error)
}
