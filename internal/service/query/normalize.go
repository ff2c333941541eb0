package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/querybot/internal/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize turns raw result records into presentation-safe documents:
// Decimal128 values become float64, nested arrays and documents become their
// textual form, other scalars are kept. Entries that are not documents are
// dropped.
func Normalize(items []any) []bson.D {
	out := make([]bson.D, 0, len(items))
	for _, item := range items {
		doc, ok := toDocument(item)
		if !ok {
			continue
		}

		flat := make(bson.D, 0, len(doc))
		for _, e := range doc {
			flat = append(flat, bson.E{Key: e.Key, Value: normalizeValue(e.Value)})
		}
		out = append(out, flat)
	}
	return out
}

// ToTable builds a table from normalized documents. Columns follow the order in
// which keys are first seen.
func ToTable(docs []bson.D) *core.Table {
	t := &core.Table{}
	index := make(map[string]int)

	for _, doc := range docs {
		for _, e := range doc {
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(t.Columns)
				t.Columns = append(t.Columns, e.Key)
			}
		}
	}

	for _, doc := range docs {
		row := make([]any, len(t.Columns))
		for _, e := range doc {
			row[index[e.Key]] = e.Value
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func toDocument(v any) (bson.D, bool) {
	switch t := v.(type) {
	case primitive.D:
		return t, true
	case primitive.M:
		return mapToDocument(t), true
	case map[string]any:
		return mapToDocument(t), true
	default:
		return nil, false
	}
}

func mapToDocument(m map[string]any) bson.D {
	d := make(bson.D, 0, len(m))
	for _, k := range sortedKeys(m) {
		d = append(d, bson.E{Key: k, Value: m[k]})
	}
	return d
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.Decimal128:
		return decimalToFloat(t)
	case primitive.A, []any, primitive.D, primitive.M, map[string]any:
		return FormatValue(t)
	default:
		return v
	}
}

func decimalToFloat(d primitive.Decimal128) float64 {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FormatValue renders a value the way it is shown inside a table cell.
// Arrays render as "[1, 2]" and documents as {"k": v}.
func FormatValue(v any) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case string:
		sb.WriteString(strconv.Quote(t))
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case int:
		sb.WriteString(strconv.Itoa(t))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case primitive.Decimal128:
		sb.WriteString(t.String())
	case primitive.ObjectID:
		sb.WriteString(strconv.Quote(t.Hex()))
	case primitive.DateTime:
		sb.WriteString(strconv.Quote(t.Time().UTC().Format(time.RFC3339)))
	case time.Time:
		sb.WriteString(strconv.Quote(t.UTC().Format(time.RFC3339)))
	case primitive.A:
		writeArray(sb, []any(t))
	case []any:
		writeArray(sb, t)
	case primitive.D:
		writeDocument(sb, t)
	case primitive.M:
		writeDocument(sb, mapToDocument(t))
	case map[string]any:
		writeDocument(sb, mapToDocument(t))
	default:
		fmt.Fprint(sb, t)
	}
}

func writeArray(sb *strings.Builder, items []any) {
	sb.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, item)
	}
	sb.WriteByte(']')
}

func writeDocument(sb *strings.Builder, doc bson.D) {
	sb.WriteByte('{')
	for i, e := range doc {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(e.Key))
		sb.WriteString(": ")
		writeValue(sb, e.Value)
	}
	sb.WriteByte('}')
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
