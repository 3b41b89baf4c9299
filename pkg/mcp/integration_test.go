package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sfcshift/pkg/mcp"
)

const document = `<template>
  <p>{{ n }}</p>
</template>

<script>
export default {
  name: 'counter',
  data() {
    return { n: 0 }
  },
}
</script>
`

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) (context.Context, *mcpsdk.ClientSession) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return ctx, session
}

func callTool(t *testing.T, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func decode(t *testing.T, result *mcpsdk.CallToolResult, into any) {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), into))
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	ctx, session := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
	}

	assert.ElementsMatch(t, []string{
		mcp.ToolNameConvert, mcp.ToolNameInspect, mcp.ToolNameSegment, mcp.ToolNameRoutes, mcp.ToolNameStore,
	}, toolNames)

	// Verify each tool has an input schema.
	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestMCPServer_CallConvert(t *testing.T) {
	t.Parallel()

	result := callTool(t, mcp.ToolNameConvert, map[string]any{"source": document})
	assert.False(t, result.IsError)

	var out mcp.ConvertResult
	decode(t, result, &out)

	assert.Contains(t, out.Output, "<script lang=\"ts\">\n")
	assert.Contains(t, out.Output, "export default class Counter extends Vue {\n")
	assert.Contains(t, out.Output, "public n: any = 0;\n")
}

func TestMCPServer_CallInspect(t *testing.T) {
	t.Parallel()

	result := callTool(t, mcp.ToolNameInspect, map[string]any{"source": document, "style": "object"})
	assert.False(t, result.IsError)

	var out mcp.InspectResult
	decode(t, result, &out)

	assert.Equal(t, "counter", out.Shape.Name)
	assert.Equal(t, []string{"n"}, out.Shape.Data)
}

func TestMCPServer_CallSegment(t *testing.T) {
	t.Parallel()

	result := callTool(t, mcp.ToolNameSegment, map[string]any{"source": "<template>a</template></style><script>b"})
	assert.False(t, result.IsError)

	var out mcp.SegmentResult
	decode(t, result, &out)

	require.Len(t, out.Blocks, 1)
	assert.Equal(t, "a", out.Blocks[0].Content)
	assert.Len(t, out.Skipped, 1)
	assert.Equal(t, 1, out.Open)
}

func TestMCPServer_CallRoutesAndStore(t *testing.T) {
	t.Parallel()

	result := callTool(t, mcp.ToolNameRoutes, map[string]any{
		"source": "export default [{ path: '/', redirect: to => '/a' }]\n",
		"name":   "router/main.js",
	})
	require.False(t, result.IsError)

	var routesOut struct {
		Code   string `json:"code"`
		Guards int    `json:"guards"`
	}
	decode(t, result, &routesOut)
	assert.Equal(t, 1, routesOut.Guards)
	assert.Contains(t, routesOut.Code, "redirect: (to: any) => '/a'")

	result = callTool(t, mcp.ToolNameStore, map[string]any{
		"source": "export default { state: { a: 1 } }\n",
		"name":   "store/cart.js",
		"indent": "  ",
	})
	require.False(t, result.IsError)

	var storeOut struct {
		Interface string   `json:"interface"`
		Fields    []string `json:"fields"`
	}
	decode(t, result, &storeOut)
	assert.Equal(t, "CartState", storeOut.Interface)
	assert.Equal(t, []string{"a"}, storeOut.Fields)
}

func TestMCPServer_ToolErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"empty source", mcp.ToolNameConvert, map[string]any{"source": ""}},
		{"unknown style", mcp.ToolNameConvert, map[string]any{"source": document, "from": "mixin"}},
		{"unknown plugin", mcp.ToolNameConvert, map[string]any{"source": document, "plugins": []string{"nope"}}},
		{"no script", mcp.ToolNameInspect, map[string]any{"source": "<template/>"}},
		{"missing name", mcp.ToolNameRoutes, map[string]any{"source": "export default []", "name": ""}},
		{"not a table", mcp.ToolNameRoutes, map[string]any{"source": "export default {}", "name": "a.js"}},
		{"not js", mcp.ToolNameStore, map[string]any{"source": "export default {}", "name": "a.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, callTool(t, tt.tool, tt.args).IsError)
		})
	}
}

func TestMCPServer_ConvertResultsAreCached(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	ctx, session := connect(t, srv)

	call := func(to string) mcp.ConvertResult {
		result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
			Name:      mcp.ToolNameConvert,
			Arguments: map[string]any{"source": document, "to": to},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		var out mcp.ConvertResult
		decode(t, result, &out)

		return out
	}

	first := call("class")
	second := call("class")
	assert.Equal(t, first, second)

	stats := srv.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)

	call("object")
	assert.Equal(t, 2, srv.CacheStats().Entries)
}
