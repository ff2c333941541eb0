package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeDispatcher struct {
	instructions []string
	history      []core.Message
	answer       core.Answer
	err          error
	panicWith    any
}

func (f *fakeDispatcher) Run(ctx context.Context, history []core.Message, instruction string) (core.Answer, error) {
	f.instructions = append(f.instructions, instruction)
	f.history = history
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.answer, f.err
}

func TestResolver_ExplicitTarget(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	r := NewResolver(d)
	target := &Target{}

	reply := r.Resolve(context.Background(), target, nil, "Show me data from sales database and orders collection")

	assert.Equal(t, "ok", reply.Text)
	assert.Equal(t, "sales", target.Database)
	assert.Equal(t, "orders", target.Collection)
	assert.Empty(t, target.PendingQuery)
	require.Len(t, d.instructions, 1)
	assert.Contains(t, d.instructions[0], "sales database")
	assert.Contains(t, d.instructions[0], "orders collection")
}

func TestResolver_MissingTargetSetsPending(t *testing.T) {
	d := &fakeDispatcher{}
	r := NewResolver(d)
	target := &Target{}

	reply := r.Resolve(context.Background(), target, nil, "Show me data")

	assert.Equal(t, ClarifyBoth, reply.Text)
	assert.Equal(t, "Show me data", target.PendingQuery)
	assert.Empty(t, d.instructions)
}

func TestResolver_ReusesCachedTarget(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	r := NewResolver(d)
	target := &Target{Database: "sales", Collection: "orders"}

	reply := r.Resolve(context.Background(), target, nil, "Show me data")

	assert.Equal(t, "ok", reply.Text)
	require.Len(t, d.instructions, 1)
	assert.Equal(t,
		"Use the previously used database (sales) and collection (orders) for this query. Show me data",
		d.instructions[0])
	assert.Empty(t, target.PendingQuery)
}

func TestResolver_PendingQueryCombined(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	r := NewResolver(d)
	target := &Target{}
	ctx := context.Background()

	r.Resolve(ctx, target, nil, "top customers by spend")
	require.Equal(t, "top customers by spend", target.PendingQuery)

	r.Resolve(ctx, target, nil, "the shop database and customers collection")

	require.Len(t, d.instructions, 1)
	assert.Equal(t, "top customers by spend from shop database and customers collection.", d.instructions[0])
	assert.Empty(t, target.PendingQuery)
	assert.Equal(t, "shop", target.Database)
	assert.Equal(t, "customers", target.Collection)
}

func TestResolver_ReversedOrder(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	target := &Target{}

	NewResolver(d).Resolve(context.Background(), target, nil, "list the users collection and crm database")

	assert.Equal(t, "crm", target.Database)
	assert.Equal(t, "users", target.Collection)
}

func TestResolver_AmbiguousSplit(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"three segments", "count sales database and orders collection and more"},
		{"both keywords in one segment", "sales database orders collection and nothing else"},
		{"keyword without a name", "database and collection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			target := &Target{Database: "old", Collection: "older"}

			reply := NewResolver(d).Resolve(context.Background(), target, nil, tt.message)

			assert.Equal(t, ClarifySplit, reply.Text)
			assert.Empty(t, d.instructions)
			assert.Equal(t, "old", target.Database)
		})
	}
}

func TestResolver_BothNamedWithoutAnd(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	target := &Target{}

	msg := "count documents in the orders collection of the sales database"
	reply := NewResolver(d).Resolve(context.Background(), target, nil, msg)

	assert.Equal(t, "ok", reply.Text)
	assert.Equal(t, []string{msg}, d.instructions)
	assert.False(t, target.Known())
}

func TestResolver_WordBoundarySplit(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "ok"}}
	target := &Target{}

	NewResolver(d).Resolve(context.Background(), target, nil, "brand sales database and orders collection")

	assert.Equal(t, "sales", target.Database)
	assert.Equal(t, "orders", target.Collection)
}

func TestResolver_RecordsBecomeTable(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{
		Text: "Here you go",
		Records: []any{
			bson.D{{Key: "name", Value: "a"}, {Key: "total", Value: mustDecimal(t, "1.5")}},
			bson.D{{Key: "name", Value: "b"}, {Key: "tags", Value: bson.A{int32(1), int32(2)}}},
			"not-a-record",
		},
	}}
	target := &Target{Database: "sales", Collection: "orders"}

	reply := NewResolver(d).Resolve(context.Background(), target, nil, "list orders")

	require.True(t, reply.IsTable())
	assert.Equal(t, []string{"name", "total", "tags"}, reply.Table.Columns)
	assert.Equal(t, [][]any{{"a", 1.5, nil}, {"b", nil, "[1, 2]"}}, reply.Table.Rows)
}

func TestResolver_OnlyInvalidRecordsFallBackToText(t *testing.T) {
	d := &fakeDispatcher{answer: core.Answer{Text: "plain", Records: []any{"x", 1}}}
	target := &Target{Database: "sales", Collection: "orders"}

	reply := NewResolver(d).Resolve(context.Background(), target, nil, "list orders")

	assert.False(t, reply.IsTable())
	assert.Equal(t, "plain", reply.Text)
}

func TestResolver_DispatchFailures(t *testing.T) {
	target := &Target{Database: "sales", Collection: "orders"}

	reply := NewResolver(&fakeDispatcher{err: errors.New("model offline")}).
		Resolve(context.Background(), target, nil, "list orders")
	assert.Equal(t, "Error handling query: model offline", reply.Text)

	reply = NewResolver(&fakeDispatcher{panicWith: "nil map"}).
		Resolve(context.Background(), target, nil, "list orders")
	assert.Equal(t, "Error handling query: nil map", reply.Text)
}

func TestResolver_PassesHistory(t *testing.T) {
	d := &fakeDispatcher{}
	history := []core.Message{{Role: core.RoleUser, Content: "Previous conversation context: s"}}
	target := &Target{Database: "sales", Collection: "orders"}

	NewResolver(d).Resolve(context.Background(), target, history, "again")

	assert.Equal(t, history, d.history)
}

func TestTarget_Reset(t *testing.T) {
	target := &Target{Database: "a", Collection: "b", PendingQuery: "c"}
	target.Reset()
	assert.Equal(t, Target{}, *target)
	assert.False(t, target.Known())
}

func mustDecimal(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}
