package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

// NativeHandler defines a function signature for internal tools
type NativeHandler func(ctx context.Context, args json.RawMessage) (core.ToolResult, error)

type Definition struct {
	Description string
	Schema      string
	Handler     NativeHandler
}

// Provider is anything that contributes tools to a Toolbox.
type Provider interface {
	GetDefinitions() map[string]Definition
}

// Toolbox is the set of tools offered to the reasoning loop.
type Toolbox struct {
	mu       sync.RWMutex
	handlers map[string]NativeHandler
	defs     []core.Tool
}

func NewToolbox(providers ...Provider) *Toolbox {
	t := &Toolbox{
		handlers: make(map[string]NativeHandler),
	}
	for _, p := range providers {
		defs := p.GetDefinitions()
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d := defs[name]
			t.RegisterNativeTool(name, d.Description, json.RawMessage(d.Schema), d.Handler)
		}
	}
	return t
}

// RegisterNativeTool adds a Go function as a tool. A second registration
// under the same name replaces the first.
func (t *Toolbox) RegisterNativeTool(name, description string, schema json.RawMessage, handler NativeHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	def := core.Tool{
		Type: "function",
		Function: core.Function{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
	}

	if _, ok := t.handlers[name]; ok {
		for i := range t.defs {
			if t.defs[i].Function.Name == name {
				t.defs[i] = def
			}
		}
	} else {
		t.defs = append(t.defs, def)
	}
	t.handlers[name] = handler
}

func (t *Toolbox) GetTools(ctx context.Context) ([]core.Tool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tools := make([]core.Tool, len(t.defs))
	copy(tools, t.defs)
	return tools, nil
}

func (t *Toolbox) CallTool(ctx context.Context, name string, args string) (core.ToolResult, error) {
	log.FromCtx(ctx).Info().Str("tool", name).Str("args", args).Msg("executing tool")

	t.mu.RLock()
	handler, ok := t.handlers[name]
	t.mu.RUnlock()

	if !ok {
		return core.ToolResult{}, fmt.Errorf("tool not found: %s", name)
	}
	if args == "" {
		args = "{}"
	}
	return handler(ctx, json.RawMessage(args))
}
