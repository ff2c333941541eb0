package memory

import (
	"context"
	"time"

	"github.com/sandevgo/querybot/internal/core"
)

// SummaryTitle is the user side of a summary turn.
const SummaryTitle = "Conversation Summary"

// Summarizer produces an incremental summary of messages, given the summary
// accumulated so far.
type Summarizer interface {
	Summarize(ctx context.Context, messages []core.Message, existing string) (string, error)
}

// Turn is one entry of the displayed history.
type Turn struct {
	User      string
	Bot       core.Reply
	IsSummary bool
	// SummaryAt is the interaction count at which a summary turn was produced.
	SummaryAt int
	CreatedAt time.Time
}
