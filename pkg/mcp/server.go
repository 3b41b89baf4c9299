// Package mcp implements a Model Context Protocol server exposing document
// conversion as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sfcshift/pkg/cache"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "sfcshift"

	// toolCount is the expected number of registered tools.
	toolCount = 5
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional document metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.ConversionMetrics

	// Version is reported to clients. Empty uses "dev".
	Version string

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// CacheBytes bounds the cache of sfc_convert results. Zero uses
	// cache.DefaultMaxBytes.
	CacheBytes int64
}

// Server wraps the MCP SDK server with conversion tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	logger  *slog.Logger
	metrics *observability.ConversionMetrics
	tracer  trace.Tracer
	results *cache.LRU[ConvertResult]
}

// NewServer creates a new MCP server with all conversion tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		results: cache.NewLRU(deps.CacheBytes, resultSize),
		tools:   make([]string, 0, toolCount),
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves on stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is cancelled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	s.logger.InfoContext(ctx, "mcp server started", "tools", len(s.ListToolNames()))

	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// handlerFunc is the typed tool handler shape of the SDK.
type handlerFunc[In any] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func (s *Server) registerTools() {
	addTool[ConvertInput](s, ToolNameConvert, convertToolDescription, s.handleConvert)
	addTool[InspectInput](s, ToolNameInspect, inspectToolDescription, s.handleInspect)
	addTool[SegmentInput](s, ToolNameSegment, segmentToolDescription, handleSegment)
	addTool[ModuleInput](s, ToolNameRoutes, routesToolDescription, handleRoutes)
	addTool[ModuleInput](s, ToolNameStore, storeToolDescription, handleStore)
}

// addTool registers handler wrapped, outermost first, in metrics, tracing
// and call logging.
func addTool[In any](s *Server, name, description string, handler handlerFunc[In]) {
	wrapped := withMetrics(s.metrics, name, withTracing(s.tracer, name, withLogging(s.logger, name, handler)))

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{Name: name, Description: description}, mcpsdk.ToolHandlerFor[In, ToolOutput](wrapped))

	s.trackTool(name)
}

// mcpSpanPrefix prefixes tool span names and metric kinds.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey labels the trace reference appended to sampled results.
const traceIDMetaKey = "trace_id"

// withTracing opens a server span per call. Results of sampled calls get
// an extra content item naming the trace.
func withTracing[In any](tracer trace.Tracer, tool string, next handlerFunc[In]) handlerFunc[In] {
	if tracer == nil {
		return next
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+tool,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", tool)),
		)
		defer span.End()

		result, out, err := next(ctx, req, in)

		if result != nil && result.IsError {
			span.SetAttributes(attribute.Bool("error", true))
		}

		if sc := span.SpanContext(); sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: traceIDMetaKey + "=" + sc.TraceID().String()})
		}

		return result, out, err
	}
}

// withMetrics records each call as a document of kind "mcp.<tool>".
func withMetrics[In any](metrics *observability.ConversionMetrics, tool string, next handlerFunc[In]) handlerFunc[In] {
	if metrics == nil {
		return next
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		defer metrics.TrackInflight(ctx)()

		start := time.Now()
		result, out, err := next(ctx, req, in)

		metrics.RecordDocument(ctx, mcpSpanPrefix+tool, callStatus(result, err), time.Since(start))

		return result, out, err
	}
}

// withLogging logs every call at debug level and failed ones as warnings.
func withLogging[In any](logger *slog.Logger, tool string, next handlerFunc[In]) handlerFunc[In] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()
		result, out, err := next(ctx, req, in)

		status := callStatus(result, err)
		if status == observability.StatusError {
			logger.WarnContext(ctx, "tool call failed", "tool", tool, "duration", time.Since(start), "error", callError(result, err))
		} else {
			logger.DebugContext(ctx, "tool call", "tool", tool, "duration", time.Since(start))
		}

		return result, out, err
	}
}

func callStatus(result *mcpsdk.CallToolResult, err error) string {
	if err != nil || (result != nil && result.IsError) {
		return observability.StatusError
	}

	return observability.StatusOK
}

// callError returns err, or the message of an error result.
func callError(result *mcpsdk.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}

	if result != nil && len(result.Content) > 0 {
		if text, ok := result.Content[0].(*mcpsdk.TextContent); ok {
			return text.Text
		}
	}

	return ""
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	convertToolDescription = "Convert a single-file component between the object and class authoring styles. " +
		"Accepts the whole document, the source and target styles and optional plugin names. " +
		"Returns the converted document with tolerated anomalies."

	inspectToolDescription = "Extract the component model of a single-file component and report its shape: " +
		"name, props, data, computed, store-bound computed, watchers, methods, lifecycle hooks and imports."

	segmentToolDescription = "Split a single-file component into its template, script and style blocks " +
		"with their attributes. Reports skipped closing markers and regions left open."

	routesToolDescription = "Rewrite a route-table module into TypeScript: lazily required components " +
		"become dynamic imports with chunk names and navigation guards get typed parameters."

	storeToolDescription = "Rewrite a store module into TypeScript with a state interface " +
		"and a typed module constant."
)

// CacheStats reports the sfc_convert result cache.
func (s *Server) CacheStats() cache.Stats {
	return s.results.Stats()
}
