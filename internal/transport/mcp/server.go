package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/pkg/log"
)

// Server exposes the query toolbox to MCP clients over stdio, so that an
// external assistant can run the same MongoDB tools the chatbot uses.
type Server struct {
	mcp *server.MCPServer
	in  io.Reader
	out io.Writer
}

func NewServer(ctx context.Context, tools core.ToolServer) (*Server, error) {
	return NewServerWithIO(ctx, tools, os.Stdin, os.Stdout)
}

func NewServerWithIO(ctx context.Context, tools core.ToolServer, in io.Reader, out io.Writer) (*Server, error) {
	s := server.NewMCPServer(
		core.BotName,
		core.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	defs, err := tools.GetTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	for _, def := range defs {
		tool := mcpproto.NewToolWithRawSchema(def.Function.Name, def.Function.Description, def.Function.Parameters)
		s.AddTool(tool, callHandler(tools, def.Function.Name))
	}

	log.FromCtx(ctx).Debug().Int("tools", len(defs)).Msg("mcp tools registered")

	return &Server{mcp: s, in: in, out: out}, nil
}

// Start serves until ctx is cancelled or the client closes stdin.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

// callHandler adapts a toolbox entry to an MCP tool call. Tool failures are
// reported in-band so the client model can react to them.
func callHandler(tools core.ToolServer, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		raw := req.GetArguments()
		if raw == nil {
			raw = map[string]any{}
		}
		args, err := json.Marshal(raw)
		if err != nil {
			return mcpproto.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := tools.CallTool(ctx, name, string(args))
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("tool", name).Msg("mcp tool call failed")
			return mcpproto.NewToolResultError(err.Error()), nil
		}
		return mcpproto.NewToolResultText(res.Content), nil
	}
}
