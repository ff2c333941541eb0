package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize(t *testing.T) {
	dec, err := primitive.ParseDecimal128("1.5")
	require.NoError(t, err)

	got := Normalize([]any{
		bson.D{{Key: "a", Value: dec}},
		bson.D{{Key: "a", Value: bson.A{1, 2}}},
		"not-a-record",
	})

	assert.Equal(t, []bson.D{
		{{Key: "a", Value: 1.5}},
		{{Key: "a", Value: "[1, 2]"}},
	}, got)
}

func TestNormalize_MapsAndScalars(t *testing.T) {
	got := Normalize([]any{
		bson.M{"b": "x", "a": int32(7)},
		map[string]any{"nested": bson.M{"k": true}},
		42,
		nil,
	})

	require.Len(t, got, 2)
	assert.Equal(t, bson.D{{Key: "a", Value: int32(7)}, {Key: "b", Value: "x"}}, got[0])
	assert.Equal(t, bson.D{{Key: "nested", Value: `{"k": true}`}}, got[1])
}

func TestFormatValue(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("65a1f0c2e4b0a1b2c3d4e5f6")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"ints", bson.A{1, 2}, "[1, 2]"},
		{"strings", bson.A{"a", "b"}, `["a", "b"]`},
		{"document", bson.D{{Key: "x", Value: 1}, {Key: "y", Value: bson.A{}}}, `{"x": 1, "y": []}`},
		{"null", nil, "null"},
		{"float", 2.25, "2.25"},
		{"object id", oid, `"65a1f0c2e4b0a1b2c3d4e5f6"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.input))
		})
	}
}

func TestToTable(t *testing.T) {
	table := ToTable([]bson.D{
		{{Key: "name", Value: "apple"}, {Key: "qty", Value: 3}},
		{{Key: "name", Value: "pear"}, {Key: "origin", Value: "PT"}},
	})

	assert.Equal(t, []string{"name", "qty", "origin"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"apple", 3, nil}, table.Rows[0])
	assert.Equal(t, []any{"pear", nil, "PT"}, table.Rows[1])
}
