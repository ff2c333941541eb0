package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxPageSize is the hard upper bound for one page of results.
	MaxPageSize = 60

	NoDataFound = "No data found."
)

// Outcome is the result of one executor call: a page of records, the
// NoDataFound marker, or an error description.
type Outcome struct {
	Records []bson.D
	Text    string
	Err     error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

func (o Outcome) Empty() bool {
	return o.Err == nil && len(o.Records) == 0
}

// Items returns the records as a generic sequence for the normalizer.
func (o Outcome) Items() []any {
	items := make([]any, len(o.Records))
	for i, r := range o.Records {
		items[i] = r
	}
	return items
}

// String is the form handed to the language model: relaxed extended JSON for
// records, the text otherwise.
func (o Outcome) String() string {
	if len(o.Records) == 0 {
		return o.Text
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i, r := range o.Records {
		if i > 0 {
			sb.WriteString(", ")
		}
		data, err := bson.MarshalExtJSON(r, false, false)
		if err != nil {
			sb.WriteString(FormatValue(r))
			continue
		}
		sb.Write(data)
	}
	sb.WriteByte(']')
	return sb.String()
}

type Executor struct {
	store   core.DocumentStore
	journal core.JournalRepository
	now     func() time.Time
}

// NewExecutor creates an executor. journal may be nil.
func NewExecutor(store core.DocumentStore, journal core.JournalRepository) *Executor {
	return &Executor{
		store:   store,
		journal: journal,
		now:     time.Now,
	}
}

// ExecuteText parses a textual description and executes it.
func (e *Executor) ExecuteText(ctx context.Context, text string, page, pageSize int) Outcome {
	d, err := Parse(text)
	if err != nil {
		e.record(ctx, core.JournalEntry{
			Page:     page,
			PageSize: pageSize,
			Status:   core.JournalInvalid,
			Error:    err.Error(),
		})
		return failure(err)
	}
	return e.Execute(ctx, d, page, pageSize)
}

// Execute runs one page of d. Page size is clamped to MaxPageSize; a
// description limit can only lower it.
func (e *Executor) Execute(ctx context.Context, d Description, page, pageSize int) Outcome {
	logger := log.FromCtx(ctx).With().
		Str("database", d.Database).
		Str("collection", d.Collection).
		Str("kind", d.Kind()).
		Logger()

	if d.Page != nil {
		page = *d.Page
	}
	if d.Limit != nil && *d.Limit > 0 && (pageSize <= 0 || *d.Limit < pageSize) {
		pageSize = *d.Limit
	}
	pageSize = ClampPageSize(pageSize)
	if page < 0 {
		page = 0
	}

	entry := core.JournalEntry{
		Database:   d.Database,
		Collection: d.Collection,
		Kind:       d.Kind(),
		Page:       page,
		PageSize:   pageSize,
	}

	if err := d.Validate(); err != nil {
		entry.Status = core.JournalInvalid
		entry.Error = err.Error()
		e.record(ctx, entry)
		return failure(err)
	}

	req := core.QueryRequest{
		Database:   d.Database,
		Collection: d.Collection,
		Filter:     d.Filter,
		Projection: d.Projection,
		Sort:       d.Sort,
		Pipeline:   d.Aggregation,
		Skip:       int64(page) * int64(pageSize),
		Limit:      int64(pageSize),
	}

	logger.Debug().
		Int("page", page).
		Int("page_size", pageSize).
		Msg("executing query")

	start := e.now()
	var (
		docs []bson.D
		err  error
	)
	if req.IsAggregation() {
		docs, err = e.store.Aggregate(ctx, req)
	} else {
		docs, err = e.store.Find(ctx, req)
	}
	entry.Duration = e.now().Sub(start)

	if err != nil {
		logger.Warn().Err(err).Msg("query failed")
		entry.Status = core.JournalFailed
		entry.Error = err.Error()
		e.record(ctx, entry)
		return failure(err)
	}

	entry.Rows = len(docs)
	if len(docs) == 0 {
		entry.Status = core.JournalEmpty
		e.record(ctx, entry)
		return Outcome{Text: NoDataFound}
	}

	for _, doc := range docs {
		stringifyID(doc)
	}

	entry.Status = core.JournalOK
	e.record(ctx, entry)
	return Outcome{Records: docs}
}

// ClampPageSize applies the MaxPageSize bound. Non-positive sizes select the
// maximum.
func ClampPageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

func (e *Executor) record(ctx context.Context, entry core.JournalEntry) {
	if e.journal == nil {
		return
	}
	entry.CreatedAt = e.now()
	if err := e.journal.Record(ctx, entry); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to record query journal entry")
	}
}

func failure(err error) Outcome {
	return Outcome{
		Text: fmt.Sprintf("Error executing query: %v", err),
		Err:  err,
	}
}

func stringifyID(doc bson.D) {
	for i, e := range doc {
		if e.Key != "_id" {
			continue
		}
		switch id := e.Value.(type) {
		case string:
		case primitive.ObjectID:
			doc[i].Value = id.Hex()
		default:
			doc[i].Value = FormatValue(id)
		}
		return
	}
}
