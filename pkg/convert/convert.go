// Package convert drives conversions: single documents, directory trees
// mirrored into an output root, and watched trees.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/extract"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
	"github.com/Sumatoshi-tech/sfcshift/pkg/plugin"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
	"github.com/Sumatoshi-tech/sfcshift/pkg/synth"
	"github.com/Sumatoshi-tech/sfcshift/pkg/textutil"
)

// Options configures a Converter.
type Options struct {
	From component.Style
	To   component.Style
	// Plugins are registry names run in order between extraction and
	// synthesis.
	Plugins []string
	Indent  string

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ConversionMetrics
}

// Converter converts component documents from one style to another. It
// holds no per-document state and is safe for concurrent use.
type Converter struct {
	extractor extract.Extractor
	synth     synth.Synthesizer
	pipeline  *plugin.Pipeline
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.ConversionMetrics
	indent    string
}

// Result is one converted document.
type Result struct {
	Output      string
	Shape       component.Shape
	Diagnostics []component.Diagnostic
}

// New builds a converter for the configured styles and plugins.
func New(opts Options) (*Converter, error) {
	extractor, err := extract.New(opts.From)
	if err != nil {
		return nil, err
	}

	synthesizer, err := synth.New(opts.To, synth.Options{Indent: opts.Indent})
	if err != nil {
		return nil, err
	}

	pipeline, err := plugin.DefaultRegistry().Pipeline(opts.Plugins...)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("sfcshift")
	}

	return &Converter{
		extractor: extractor,
		synth:     synthesizer,
		pipeline:  pipeline,
		logger:    logger,
		tracer:    tracer,
		metrics:   opts.Metrics,
		indent:    opts.Indent,
	}, nil
}

// Plugins returns the names of the passes the converter runs.
func (c *Converter) Plugins() []string {
	return c.pipeline.Names()
}

// Settings describes what the converter produces: both styles, the plugin
// names and the indentation unit. Equal settings give equal output.
func (c *Converter) Settings() string {
	return fmt.Sprintf("%s>%s;%s;%q", c.extractor.Style(), c.synth.Style(), strings.Join(c.Plugins(), ","), c.indent)
}

// Extract segments the document and extracts the model of its behavior
// block. Segmenter anomalies are recorded on the model.
func (c *Converter) Extract(ctx context.Context, src []byte) (*component.Model, error) {
	text := string(src)

	var seg sfc.Segmenter

	blocks := seg.Segment(text)

	behavior, ok := sfc.Find(blocks, sfc.Behavior)
	if !ok {
		return nil, fmt.Errorf("%w: no %s block", component.ErrMissingDeclaration, sfc.Behavior)
	}

	tree, err := jsast.ParseString(ctx, behavior.Content, c.extractor.Dialect(behavior.Lang()))
	if err != nil {
		return nil, err
	}

	m, err := c.extractor.Extract(tree)
	if err != nil {
		return nil, err
	}

	m.Blocks = blocks
	m.Diagnostics = append(segmentDiagnostics(text, &seg), m.Diagnostics...)

	return m, nil
}

// segmentDiagnostics reports skipped closing markers and regions left open.
func segmentDiagnostics(text string, seg *sfc.Segmenter) []component.Diagnostic {
	var out []component.Diagnostic

	for _, mk := range seg.Skipped {
		out = append(out, component.Diagnostic{
			Kind:    component.MalformedNesting,
			Message: fmt.Sprintf("skipped closing marker </%s>", mk.Type),
			Line:    textutil.LineAt(text, mk.Offset),
		})
	}

	if depth := seg.Depth(); depth > 0 {
		out = append(out, component.Diagnostic{
			Kind:    component.MalformedNesting,
			Message: fmt.Sprintf("%d region(s) left open", depth),
		})
	}

	return out
}

// Convert runs the whole pipeline over one document. name is used for
// logging and telemetry only.
func (c *Converter) Convert(ctx context.Context, name string, src []byte) (*Result, error) {
	ctx = observability.WithDocument(ctx, name)

	ctx, span := c.tracer.Start(ctx, "sfcshift.convert", trace.WithAttributes(
		attribute.String("sfcshift.document", name),
		attribute.String("sfcshift.from", string(c.extractor.Style())),
		attribute.String("sfcshift.to", string(c.synth.Style())),
	))
	defer span.End()

	defer c.metrics.TrackInflight(ctx)()

	start := time.Now()

	res, err := c.convert(ctx, src)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	c.metrics.RecordDocument(ctx, string(KindComponent), status, time.Since(start))

	if err != nil {
		return nil, err
	}

	for _, d := range res.Diagnostics {
		c.logger.WarnContext(ctx, "tolerated anomaly", "kind", d.Kind, "line", d.Line, "message", d.Message)
	}

	return res, nil
}

func (c *Converter) convert(ctx context.Context, src []byte) (*Result, error) {
	m, err := c.Extract(ctx, src)
	if err != nil {
		return nil, err
	}

	c.pipeline.Run(m)

	out, err := synth.Assemble(m, c.synth)
	if err != nil {
		return nil, err
	}

	return &Result{Output: out, Shape: m.Shape(), Diagnostics: m.Diagnostics}, nil
}
