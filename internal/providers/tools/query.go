package tools

import (
	"context"
	"encoding/json"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/query"
)

const QueryToolName = "mongodb_query"

const queryToolDescription = "Use this tool to execute MongoDB queries. " +
	"Input is a query description with keys: database, collection, filter, sort, projection, aggregation, limit and page. " +
	"Returns matching documents as JSON, the text \"No data found.\" or an error."

const querySchema = `
{
  "type": "object",
  "properties": {
    "database": { "type": "string", "description": "Database name" },
    "collection": { "type": "string", "description": "Collection name" },
    "filter": { "type": "object", "description": "MongoDB filter document, e.g. {\"status\": \"shipped\"}" },
    "sort": { "type": "object", "description": "Sort specification, e.g. {\"total\": -1}" },
    "projection": { "type": "object", "description": "Fields to include or exclude" },
    "aggregation": {
      "type": "array",
      "items": { "type": "object" },
      "description": "Aggregation pipeline stages. When present, filter and projection are ignored"
    },
    "limit": { "type": "integer", "description": "Maximum number of documents (at most 60)" },
    "page": { "type": "integer", "description": "Zero-based page number" }
  },
  "required": ["database", "collection"]
}
`

type Executor interface {
	ExecuteText(ctx context.Context, text string, page, pageSize int) query.Outcome
}

// Query exposes the query executor to the reasoning loop.
type Query struct {
	exec     Executor
	maxBytes int
}

func NewQuery(exec Executor) *Query {
	return &Query{
		exec:     exec,
		maxBytes: maxOutputLen,
	}
}

func (q *Query) RunQuery(ctx context.Context, args json.RawMessage) (core.ToolResult, error) {
	out := q.exec.ExecuteText(ctx, unwrapQuery(args), 0, query.MaxPageSize)

	return core.ToolResult{
		Content: Truncate(out.String(), q.maxBytes),
		Records: out.Items(),
	}, nil
}

func (q *Query) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		QueryToolName: {queryToolDescription, querySchema, q.RunQuery},
	}
}

// unwrapQuery accepts both a bare description and one wrapped as
// {"query": "<description text>"}, which some models produce.
func unwrapQuery(args json.RawMessage) string {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(args, &wrapped); err != nil || len(wrapped) != 1 {
		return string(args)
	}
	inner, ok := wrapped["query"]
	if !ok {
		return string(args)
	}

	var text string
	if err := json.Unmarshal(inner, &text); err == nil {
		return text
	}
	return string(inner)
}
