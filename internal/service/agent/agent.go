package agent

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

const DefaultMaxSteps = 8

// DefaultSystemPrompt applies when the runtime directory has no SYSTEM.md.
const DefaultSystemPrompt = `You are a MongoDB assistant. Answer questions about the user's data by calling the mongodb_query tool.
Always pass the database and collection named in the request. Use filter, sort and projection for simple lookups and an aggregation pipeline for grouping or counting.
When the tool returns documents, answer briefly; the documents are shown to the user as a table. When it returns "No data found." or an error, say so plainly.`

var ErrStepLimit = errors.New("reasoning step limit reached")

// Agent is the tool-calling reasoning loop.
type Agent struct {
	cfg      core.PromptConfig
	ai       core.AIProvider
	tools    core.ToolServer
	executor *Executor
	maxSteps int
}

// NewAgent creates an agent. cfg may be nil; a non-positive maxSteps selects
// DefaultMaxSteps.
func NewAgent(cfg core.PromptConfig, ai core.AIProvider, tools core.ToolServer, maxSteps int) *Agent {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Agent{
		cfg:      cfg,
		ai:       ai,
		tools:    tools,
		executor: NewExecutor(tools),
		maxSteps: maxSteps,
	}
}

// Run answers instruction with history as prior context. Records returned by
// the last tool call that produced any are handed back alongside the text.
func (a *Agent) Run(ctx context.Context, history []core.Message, instruction string) (core.Answer, error) {
	logger := log.FromCtx(ctx)

	tools, err := a.tools.GetTools(ctx)
	if err != nil {
		return core.Answer{}, fmt.Errorf("failed to get tools: %w", err)
	}

	messages := a.buildSystemPrompt()
	messages = append(messages, history...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: instruction})

	var answer core.Answer

	for step := 0; ; step++ {
		if step >= a.maxSteps {
			return answer, fmt.Errorf("%w (%d)", ErrStepLimit, a.maxSteps)
		}

		responseMsg, err := a.ai.Chat(ctx, sanitizeToolCalls(ctx, messages), tools)
		if err != nil {
			return core.Answer{}, fmt.Errorf("ai chat error: %w", err)
		}
		messages = append(messages, responseMsg)

		if responseMsg.Content != "" {
			answer.Text = responseMsg.Content
		}

		if len(responseMsg.ToolCalls) == 0 {
			break
		}

		logger.Debug().Int("step", step).Int("count", len(responseMsg.ToolCalls)).Msg("model requested tools")

		results, records := a.executor.Execute(ctx, responseMsg.ToolCalls)
		messages = append(messages, results...)
		if len(records) > 0 {
			answer.Records = records
		}
	}

	return answer, nil
}

func (a *Agent) buildSystemPrompt() []core.Message {
	prompt := DefaultSystemPrompt
	if a.cfg != nil {
		if content, err := os.ReadFile(a.cfg.GetSystemPath()); err == nil && len(content) > 0 {
			prompt = string(content)
		}
	}
	return []core.Message{{Role: core.RoleSystem, Content: prompt}}
}

// sanitizeToolCalls drops tool results that do not answer a tool call of the
// preceding assistant message. Providers reject such histories.
func sanitizeToolCalls(ctx context.Context, messages []core.Message) []core.Message {
	var out []core.Message
	pending := make(map[string]struct{})

	for _, m := range messages {
		switch m.Role {
		case core.RoleAssistant:
			pending = make(map[string]struct{}, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				pending[tc.ID] = struct{}{}
			}
		case core.RoleTool:
			if _, ok := pending[m.ToolCallID]; !ok {
				log.FromCtx(ctx).Debug().Str("tool_call_id", m.ToolCallID).Msg("dropping orphaned tool result")
				continue
			}
			delete(pending, m.ToolCallID)
		default:
			pending = make(map[string]struct{})
		}
		out = append(out, m)
	}

	return out
}
