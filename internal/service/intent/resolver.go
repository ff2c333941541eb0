package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/service/query"
	"github.com/sandevgo/querybot/pkg/log"
)

const (
	ClarifyBoth   = "Please specify both the database and collection names."
	ClarifySplit  = "Unable to determine the database and collection names. Please specify both clearly."
	keyDatabase   = "database"
	keyCollection = "collection"
)

var andSplitter = regexp.MustCompile(`\band\b`)

// Dispatcher runs the reasoning loop for one instruction.
type Dispatcher interface {
	Run(ctx context.Context, history []core.Message, instruction string) (core.Answer, error)
}

// Target is the per-session cache of the last-used database and collection
// and a query waiting for them.
type Target struct {
	Database     string
	Collection   string
	PendingQuery string
}

func (t *Target) Known() bool {
	return t.Database != "" && t.Collection != ""
}

func (t *Target) Reset() {
	*t = Target{}
}

// Resolver anchors every query to an explicit database and collection.
// The matching is a plain text heuristic that understands
// "<x> database and <y> collection" phrasing only.
type Resolver struct {
	dispatcher Dispatcher
}

func NewResolver(dispatcher Dispatcher) *Resolver {
	return &Resolver{dispatcher: dispatcher}
}

// Resolve handles one user message. history is the model context to pass
// along on dispatch. It never returns an error: failures become text.
func (r *Resolver) Resolve(ctx context.Context, target *Target, history []core.Message, message string) core.Reply {
	hasDB := strings.Contains(message, keyDatabase)
	hasCol := strings.Contains(message, keyCollection)

	switch {
	case hasDB && hasCol && andSplitter.MatchString(message):
		db, col, ok := splitTarget(message)
		if !ok {
			return core.TextReply(ClarifySplit)
		}

		target.Database = db
		target.Collection = col
		instruction := message
		if target.PendingQuery != "" {
			instruction = fmt.Sprintf("%s from %s database and %s collection.", target.PendingQuery, db, col)
		}
		target.PendingQuery = ""
		return r.dispatch(ctx, history, instruction)

	case !hasDB || !hasCol:
		if !target.Known() {
			target.PendingQuery = message
			return core.TextReply(ClarifyBoth)
		}
		instruction := fmt.Sprintf(
			"Use the previously used database (%s) and collection (%s) for this query. %s",
			target.Database, target.Collection, message,
		)
		return r.dispatch(ctx, history, instruction)

	default:
		return r.dispatch(ctx, history, message)
	}
}

func (r *Resolver) dispatch(ctx context.Context, history []core.Message, instruction string) (reply core.Reply) {
	logger := log.FromCtx(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("reasoning loop panicked")
			reply = core.TextReply(fmt.Sprintf("Error handling query: %v", rec))
		}
	}()

	logger.Debug().Str("instruction", instruction).Msg("dispatching query")

	answer, err := r.dispatcher.Run(ctx, history, instruction)
	if err != nil {
		logger.Warn().Err(err).Msg("query dispatch failed")
		return core.TextReply(fmt.Sprintf("Error handling query: %v", err))
	}

	if answer.HasRecords() {
		if table := query.ToTable(query.Normalize(answer.Records)); table.Len() > 0 {
			return core.TableReply(table)
		}
	}
	return core.TextReply(answer.Text)
}

// splitTarget splits message on the word "and" into exactly two segments and
// reads the database and collection names from them, in either order.
func splitTarget(message string) (db, col string, ok bool) {
	segments := andSplitter.Split(message, -1)
	if len(segments) != 2 {
		return "", "", false
	}

	first, second := segments[0], segments[1]
	switch {
	case strings.Contains(first, keyDatabase) && strings.Contains(second, keyCollection):
		db, col = nameFor(first, keyDatabase), nameFor(second, keyCollection)
	case strings.Contains(first, keyCollection) && strings.Contains(second, keyDatabase):
		db, col = nameFor(second, keyDatabase), nameFor(first, keyCollection)
	default:
		return "", "", false
	}

	if db == "" || col == "" {
		return "", "", false
	}
	return db, col, true
}

// nameFor returns the word right before keyword in segment, or the word
// right after it when keyword leads the segment.
func nameFor(segment, keyword string) string {
	words := strings.Fields(segment)
	for i, w := range words {
		if cleanWord(w) != keyword {
			continue
		}
		if i > 0 {
			return cleanWord(words[i-1])
		}
		if i+1 < len(words) {
			return cleanWord(words[i+1])
		}
	}
	return ""
}

func cleanWord(w string) string {
	return strings.Trim(w, ".,;:!?\"'`()[]{}")
}
