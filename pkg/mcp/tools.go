package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sfcshift/pkg/cache"
	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/convert"
	"github.com/Sumatoshi-tech/sfcshift/pkg/plugin"
	"github.com/Sumatoshi-tech/sfcshift/pkg/routes"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
	"github.com/Sumatoshi-tech/sfcshift/pkg/storemod"
)

// Tool name constants.
const (
	ToolNameConvert = "sfc_convert"
	ToolNameInspect = "sfc_inspect"
	ToolNameSegment = "sfc_segment"
	ToolNameRoutes  = "routes_rewrite"
	ToolNameStore   = "store_rewrite"
)

// Input size limits.
const (
	// MaxSourceInputBytes is the maximum allowed size for inline source input (1 MB).
	MaxSourceInputBytes = 1 << 20
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptySource indicates the source parameter is empty.
	ErrEmptySource = errors.New("source parameter is required and must not be empty")
	// ErrSourceTooLarge indicates the source input exceeds the size limit.
	ErrSourceTooLarge = errors.New("source input exceeds maximum size")
	// ErrEmptyName indicates the name parameter is empty.
	ErrEmptyName = errors.New("name parameter is required and must not be empty")
)

// Default file names used when the caller gives none.
const (
	defaultDocumentName = "Component.vue"
)

// Input types (auto-generate JSON schemas via struct tags).

// ConvertInput is the input schema for the sfc_convert tool.
type ConvertInput struct {
	Source  string   `json:"source"            jsonschema:"the whole single-file component document"`
	From    string   `json:"from,omitempty"    jsonschema:"source authoring style: object or class (default: object)"`
	To      string   `json:"to,omitempty"      jsonschema:"target authoring style: object or class (default: class)"`
	Plugins []string `json:"plugins,omitempty" jsonschema:"plugin names to run in order (default: all)"`
	Indent  string   `json:"indent,omitempty"  jsonschema:"indentation unit of generated code (default: four spaces)"`
}

// InspectInput is the input schema for the sfc_inspect tool.
type InspectInput struct {
	Source string `json:"source"          jsonschema:"the whole single-file component document"`
	Style  string `json:"style,omitempty" jsonschema:"authoring style of the document: object or class (default: object)"`
}

// SegmentInput is the input schema for the sfc_segment tool.
type SegmentInput struct {
	Source string `json:"source" jsonschema:"the whole single-file component document"`
}

// ModuleInput is the input schema for the routes_rewrite and store_rewrite
// tools.
type ModuleInput struct {
	Source string `json:"source"           jsonschema:"the module source"`
	Name   string `json:"name"             jsonschema:"file name of the module, e.g. router/user.js; its base name names chunks and interfaces"`
	Indent string `json:"indent,omitempty" jsonschema:"indentation unit of generated interfaces (default: four spaces)"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// ConvertResult is the sfc_convert payload.
type ConvertResult struct {
	Output      string                 `json:"output"`
	Diagnostics []component.Diagnostic `json:"diagnostics,omitempty"`
}

// InspectResult is the sfc_inspect payload.
type InspectResult struct {
	Shape       component.Shape        `json:"shape"`
	Diagnostics []component.Diagnostic `json:"diagnostics,omitempty"`
}

// SegmentResult is the sfc_segment payload.
type SegmentResult struct {
	Blocks  []sfc.Block  `json:"blocks"`
	Skipped []sfc.Marker `json:"skipped,omitempty"`
	Open    int          `json:"open"`
}

// resultSize approximates the memory held by a cached result.
func resultSize(r ConvertResult) int64 {
	size := len(r.Output)
	for _, d := range r.Diagnostics {
		size += len(d.Message) + len(d.Kind)
	}

	return int64(size)
}

func defaultPlugins() []string {
	return plugin.DefaultRegistry().Names()
}

func (s *Server) converter(from, to string, plugins []string, indent string) (*convert.Converter, error) {
	opts := convert.Options{
		From:    component.ObjectStyle,
		To:      component.ClassStyle,
		Plugins: plugins,
		Indent:  indent,
		Logger:  s.logger,
		Tracer:  s.tracer,
	}

	if from != "" {
		opts.From = component.Style(from)
	}

	if to != "" {
		opts.To = component.Style(to)
	}

	if plugins == nil {
		opts.Plugins = defaultPlugins()
	}

	return convert.New(opts)
}

func (s *Server) handleConvert(ctx context.Context, _ *mcpsdk.CallToolRequest, in ConvertInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateSource(in.Source); err != nil {
		return errorResult(err)
	}

	conv, err := s.converter(in.From, in.To, in.Plugins, in.Indent)
	if err != nil {
		return errorResult(err)
	}

	key := cache.Key(conv.Settings(), []byte(in.Source))
	if hit, ok := s.results.Get(key); ok {
		return jsonResult(hit)
	}

	res, err := conv.Convert(ctx, defaultDocumentName, []byte(in.Source))
	if err != nil {
		return errorResult(err)
	}

	out := ConvertResult{Output: res.Output, Diagnostics: res.Diagnostics}
	s.results.Put(key, out)

	return jsonResult(out)
}

func (s *Server) handleInspect(ctx context.Context, _ *mcpsdk.CallToolRequest, in InspectInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateSource(in.Source); err != nil {
		return errorResult(err)
	}

	conv, err := s.converter(in.Style, "", []string{}, "")
	if err != nil {
		return errorResult(err)
	}

	m, err := conv.Extract(ctx, []byte(in.Source))
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(InspectResult{Shape: m.Shape(), Diagnostics: m.Diagnostics})
}

func handleSegment(_ context.Context, _ *mcpsdk.CallToolRequest, in SegmentInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateSource(in.Source); err != nil {
		return errorResult(err)
	}

	var seg sfc.Segmenter

	blocks := seg.Segment(in.Source)

	return jsonResult(SegmentResult{Blocks: blocks, Skipped: seg.Skipped, Open: seg.Depth()})
}

func handleRoutes(ctx context.Context, _ *mcpsdk.CallToolRequest, in ModuleInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateModule(in); err != nil {
		return errorResult(err)
	}

	res, err := routes.Rewrite(ctx, in.Name, []byte(in.Source))
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res)
}

func handleStore(ctx context.Context, _ *mcpsdk.CallToolRequest, in ModuleInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateModule(in); err != nil {
		return errorResult(err)
	}

	res, err := storemod.Rewrite(ctx, in.Name, []byte(in.Source), storemod.Options{Indent: in.Indent})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(res)
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateSource checks common source input constraints.
func validateSource(source string) error {
	if source == "" {
		return ErrEmptySource
	}

	if len(source) > MaxSourceInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(source), MaxSourceInputBytes)
	}

	return nil
}

func validateModule(in ModuleInput) error {
	if err := validateSource(in.Source); err != nil {
		return err
	}

	if in.Name == "" {
		return ErrEmptyName
	}

	return nil
}
