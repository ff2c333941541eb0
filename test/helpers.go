package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sandevgo/querybot/internal/config"
	"github.com/sandevgo/querybot/internal/storage/mongo"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

const MongoURIEnv = "QUERYBOT_TEST_MONGODB_URI"

// MongoClient connects to the server named by QUERYBOT_TEST_MONGODB_URI or
// skips the test when it is unset.
func MongoClient(t *testing.T) *mongodrv.Client {
	t.Helper()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set", MongoURIEnv)
	}

	client, err := mongo.NewClient(context.Background(), &config.MongoConfig{
		URI:            uri,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client
}

// SeedCollection replaces the contents of db.coll with docs and drops the
// database when the test ends.
func SeedCollection(t *testing.T, client *mongodrv.Client, db, coll string, docs []bson.D) {
	t.Helper()
	ctx := context.Background()

	c := client.Database(db).Collection(coll)
	require.NoError(t, c.Drop(ctx))

	items := make([]any, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	_, err := c.InsertMany(ctx, items)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Database(db).Drop(context.Background()) })
}
