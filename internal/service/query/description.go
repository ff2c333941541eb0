package query

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrMissingTarget = errors.New("database and collection are required")

// ParseError reports a query description that could not be understood.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid query description")
	if e.Field != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Field)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Description is a validated query against one collection.
type Description struct {
	Database    string
	Collection  string
	Filter      bson.D
	Sort        bson.D
	Projection  bson.D
	Aggregation []bson.D

	// Page and Limit are optional paging hints supplied by the caller.
	Page  *int
	Limit *int
}

func (d Description) IsAggregation() bool {
	return len(d.Aggregation) > 0
}

func (d Description) Kind() string {
	if d.IsAggregation() {
		return "aggregate"
	}
	return "find"
}

func (d Description) Validate() error {
	if strings.TrimSpace(d.Database) == "" || strings.TrimSpace(d.Collection) == "" {
		return &ParseError{Reason: "missing target", Err: ErrMissingTarget}
	}
	return nil
}

// Parse decodes a textual query description. The text is MongoDB extended
// JSON, e.g.
//
//	{"database": "sales", "collection": "orders", "filter": {"status": "open"}, "sort": {"total": -1}}
func Parse(text string) (Description, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Description{}, &ParseError{Reason: "empty input"}
	}

	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), false, &doc); err != nil {
		return Description{}, &ParseError{Reason: "malformed document", Err: err}
	}
	return FromDocument(doc)
}

// FromDocument validates a decoded description document. Unknown keys are
// rejected.
func FromDocument(doc bson.D) (Description, error) {
	var d Description

	for _, e := range doc {
		switch e.Key {
		case "database":
			s, ok := e.Value.(string)
			if !ok {
				return Description{}, typeError(e.Key, "string", e.Value)
			}
			d.Database = strings.TrimSpace(s)
		case "collection":
			s, ok := e.Value.(string)
			if !ok {
				return Description{}, typeError(e.Key, "string", e.Value)
			}
			d.Collection = strings.TrimSpace(s)
		case "filter":
			f, err := asDocument(e.Key, e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Filter = f
		case "projection":
			p, err := asDocument(e.Key, e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Projection = p
		case "sort":
			s, err := asSort(e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Sort = s
		case "aggregation":
			a, err := asPipeline(e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Aggregation = a
		case "page":
			n, err := asInt(e.Key, e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Page = &n
		case "limit":
			n, err := asInt(e.Key, e.Value)
			if err != nil {
				return Description{}, err
			}
			d.Limit = &n
		default:
			return Description{}, &ParseError{Field: e.Key, Reason: "unknown field"}
		}
	}

	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}

func asDocument(field string, v any) (bson.D, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case primitive.D:
		return t, nil
	case primitive.M:
		d := make(bson.D, 0, len(t))
		for _, k := range sortedKeys(t) {
			d = append(d, bson.E{Key: k, Value: t[k]})
		}
		return d, nil
	default:
		return nil, typeError(field, "document", v)
	}
}

// asSort accepts {"field": 1}, [["field", -1], ...] or "field".
func asSort(v any) (bson.D, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return bson.D{{Key: t, Value: 1}}, nil
	case primitive.A:
		out := make(bson.D, 0, len(t))
		for _, item := range t {
			pair, ok := item.(primitive.A)
			if !ok || len(pair) != 2 {
				return nil, &ParseError{Field: "sort", Reason: "expected [field, direction] pairs"}
			}
			key, ok := pair[0].(string)
			if !ok {
				return nil, typeError("sort", "string field name", pair[0])
			}
			dir, err := asInt("sort", pair[1])
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: key, Value: dir})
		}
		return out, nil
	default:
		return asDocument("sort", v)
	}
}

func asPipeline(v any) ([]bson.D, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case primitive.A:
		out := make([]bson.D, 0, len(t))
		for i, stage := range t {
			d, err := asDocument(fmt.Sprintf("aggregation[%d]", i), stage)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	default:
		return nil, typeError("aggregation", "array of stages", v)
	}
}

func asInt(field string, v any) (int, error) {
	switch n := v.(type) {
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, typeError(field, "integer", v)
		}
		return int(n), nil
	default:
		return 0, typeError(field, "integer", v)
	}
}

func typeError(field, want string, got any) error {
	return &ParseError{Field: field, Reason: fmt.Sprintf("expected %s, got %T", want, got)}
}
