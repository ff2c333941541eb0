package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/querybot/internal/core"
	"github.com/sandevgo/querybot/internal/providers/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoSchema = `{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`

func newTestToolbox() *tools.Toolbox {
	tb := tools.NewToolbox()
	tb.RegisterNativeTool("echo", "Echo the text back", json.RawMessage(echoSchema),
		func(ctx context.Context, args json.RawMessage) (core.ToolResult, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return core.ToolResult{}, err
			}
			return core.ToolResult{Content: "echo: " + in.Text}, nil
		})
	tb.RegisterNativeTool("broken", "Always fails", json.RawMessage(`{"type":"object"}`),
		func(ctx context.Context, args json.RawMessage) (core.ToolResult, error) {
			return core.ToolResult{}, errors.New("mongo unavailable")
		})
	return tb
}

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()

	srv, err := NewServerWithIO(ctx, newTestToolbox(), nil, nil)
	require.NoError(t, err)

	c, err := client.NewInProcessClient(srv.mcp)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Start(ctx))

	initReq := mcpproto.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpproto.Implementation{Name: "test", Version: "0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)

	return c
}

func textOf(t *testing.T, res *mcpproto.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := mcpproto.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestServer_ListTools(t *testing.T) {
	c := newTestClient(t)

	res, err := c.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"echo", "broken"}, names)
}

func TestServer_CallTool(t *testing.T) {
	c := newTestClient(t)

	req := mcpproto.CallToolRequest{}
	req.Params.Name = "echo"
	req.Params.Arguments = map[string]any{"text": "hi"}

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "echo: hi", textOf(t, res))
}

func TestServer_CallToolError(t *testing.T) {
	c := newTestClient(t)

	req := mcpproto.CallToolRequest{}
	req.Params.Name = "broken"

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "mongo unavailable", textOf(t, res))
}
