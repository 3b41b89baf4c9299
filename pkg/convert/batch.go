package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
	"github.com/Sumatoshi-tech/sfcshift/pkg/routes"
	"github.com/Sumatoshi-tech/sfcshift/pkg/storemod"
	"github.com/Sumatoshi-tech/sfcshift/pkg/textutil"
)

// File statuses in a report.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// BatchOptions configures a Batch.
type BatchOptions struct {
	Layout

	// OutputRoot receives the mirrored tree. Nothing is written when it is
	// empty or DryRun is set.
	OutputRoot string
	DryRun     bool
	// Diff fills FileResult.Patch against the input file.
	Diff bool

	// Skip holds base-name patterns of files and directories to leave out.
	Skip []string
	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize uint64
	// Workers bounds concurrency. Zero means one per CPU.
	Workers int
	// Indent is used by the state-module rewriter.
	Indent string
	// Incremental skips files whose content is unchanged since the last
	// run into the same output root. It has no effect without one.
	Incremental bool

	Logger  *slog.Logger
	Metrics *observability.ConversionMetrics
}

// Batch converts trees with a bounded worker pool. A failing file is
// recorded in the report and never stops the others.
type Batch struct {
	conv *Converter
	opts BatchOptions
	// manifest is set by Run for incremental batches and read-only while
	// files are converted.
	manifest *Manifest
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path        string                 `json:"path"                  yaml:"path"`
	Output      string                 `json:"output,omitempty"      yaml:"output,omitempty"`
	Kind        Kind                   `json:"kind"                  yaml:"kind"`
	Status      string                 `json:"status"                yaml:"status"`
	Reason      string                 `json:"reason,omitempty"      yaml:"reason,omitempty"`
	Diagnostics []component.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Patch       string                 `json:"patch,omitempty"       yaml:"patch,omitempty"`
	Err         error                  `json:"-"                     yaml:"-"`
	Content     string                 `json:"-"                     yaml:"-"`
	Size        int                    `json:"size"                  yaml:"size"`

	hash string
}

// Report collects the results of one run in input order.
type Report struct {
	RunID     string       `json:"run_id"        yaml:"run_id"`
	Files     []FileResult `json:"files"         yaml:"files"`
	Converted int          `json:"converted"     yaml:"converted"`
	Failed    int          `json:"failed"        yaml:"failed"`
	Skipped   int          `json:"skipped"       yaml:"skipped"`
	Written   uint64       `json:"written_bytes" yaml:"written_bytes"`
}

func (r *Report) add(res FileResult) {
	r.Files = append(r.Files, res)

	switch res.Status {
	case StatusConverted:
		r.Converted++
		r.Written += uint64(len(res.Content))
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}
}

// Err joins the errors of failed files.
func (r *Report) Err() error {
	var errs []error

	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
		}
	}

	return errors.Join(errs...)
}

// Summary is a one-line human-readable account of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d converted, %d failed, %d skipped, %s produced",
		r.Converted, r.Failed, r.Skipped, humanize.Bytes(r.Written))
}

// NewBatch returns a batch converting components with conv.
func NewBatch(conv *Converter, opts BatchOptions) *Batch {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &Batch{conv: conv, opts: opts}
}

type job struct {
	index int
	root  string
	path  string
}

func (b *Batch) incremental() bool {
	return b.opts.Incremental && b.opts.OutputRoot != "" && !b.opts.DryRun
}

func (b *Batch) settings() string {
	return b.conv.Settings() + ";" + b.opts.Indent
}

// Run converts every recognized file under root, or root itself when it
// is a file. It returns an error only when the tree cannot be walked, the
// manifest cannot be saved or the context is cancelled; per-file failures
// are in the report. Runs of one Batch must not overlap.
func (b *Batch) Run(ctx context.Context, root string) (*Report, error) {
	paths, err := b.collect(root)
	if err != nil {
		return nil, err
	}

	if b.incremental() {
		b.manifest = b.loadManifest(b.settings())
	}

	runID := uuid.NewString()
	start := time.Now()

	b.opts.Logger.InfoContext(ctx, "batch started", "run_id", runID, "root", root, "files", len(paths))

	base := root
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan job)

	var wg sync.WaitGroup

	for range min(b.opts.Workers, max(len(paths), 1)) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range jobs {
				results[j.index] = b.File(ctx, j.root, j.path)
			}
		}()
	}

feed:
	for i, p := range paths {
		select {
		case jobs <- job{index: i, root: base, path: p}:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("batch cancelled: %w", ctx.Err())
	}

	if b.incremental() {
		if err := b.saveManifest(b.settings(), results); err != nil {
			return nil, err
		}
	}

	report := &Report{RunID: runID}
	for _, res := range results {
		if res.Status != "" {
			report.add(res)
		}
	}

	b.opts.Logger.InfoContext(ctx, "batch finished", "run_id", runID,
		"converted", report.Converted, "failed", report.Failed, "skipped", report.Skipped,
		"duration", time.Since(start))

	return report, nil
}

// collect lists candidate files in walk order.
func (b *Batch) collect(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && b.skipped(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.Type().IsRegular() {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return paths, nil
}

func (b *Batch) skipped(name string) bool {
	for _, pattern := range b.opts.Skip {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}

	return false
}

// File converts one file found under root. Files of unknown kind come back
// with KindUnknown and no status.
func (b *Batch) File(ctx context.Context, root, path string) FileResult {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	res := FileResult{Path: rel}

	info, err := os.Stat(path)
	if err != nil {
		return b.fail(ctx, res, err)
	}

	res.Size = int(info.Size())

	if b.opts.MaxFileSize > 0 && uint64(info.Size()) > b.opts.MaxFileSize {
		// Oversized files are classified by name alone and never read.
		if res.Kind = b.detect(rel, path, nil); res.Kind == KindUnknown {
			return res
		}

		return b.skip(ctx, res, "larger than "+humanize.Bytes(b.opts.MaxFileSize))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return b.fail(ctx, res, err)
	}

	res.Size = len(src)

	if res.Kind = b.detect(rel, path, src); res.Kind == KindUnknown {
		return res
	}

	res.hash = contentHash(src)

	switch {
	case b.unchanged(res):
		return b.skip(ctx, res, reasonUnchanged)
	case textutil.IsBinary(src):
		return b.skip(ctx, res, "binary content")
	}

	start := time.Now()

	res.Content, res.Diagnostics, err = b.rewrite(ctx, res.Kind, path, src)
	if err != nil {
		return b.fail(ctx, res, err)
	}

	if res.Kind != KindComponent {
		b.opts.Metrics.RecordDocument(ctx, string(res.Kind), observability.StatusOK, time.Since(start))
	}

	res.Status = StatusConverted

	if b.opts.Diff {
		res.Patch = Patch(rel, string(src), res.Content)
	}

	if b.opts.OutputRoot != "" && !b.opts.DryRun {
		res.Output = filepath.Join(b.opts.OutputRoot, res.Kind.OutputName(rel))

		if err := writeFile(res.Output, res.Content); err != nil {
			return b.fail(ctx, res, err)
		}
	}

	b.opts.Logger.DebugContext(ctx, "converted", "path", rel, "kind", res.Kind, "bytes", len(res.Content))

	return res
}

func (b *Batch) detect(rel, path string, src []byte) Kind {
	kind := b.opts.Detect(rel, src)
	if kind == KindUnknown && filepath.Dir(rel) == "." {
		// Top-level files are classified by the path they were found under.
		kind = b.opts.Detect(path, src)
	}

	return kind
}

func (b *Batch) rewrite(ctx context.Context, kind Kind, path string, src []byte) (string, []component.Diagnostic, error) {
	switch kind {
	case KindComponent:
		out, err := b.conv.Convert(ctx, path, src)
		if err != nil {
			return "", nil, err
		}

		return out.Output, out.Diagnostics, nil
	case KindRoutes:
		out, err := routes.Rewrite(ctx, path, src)
		if err != nil {
			return "", nil, err
		}

		return out.Code, nil, nil
	case KindStore:
		out, err := storemod.Rewrite(ctx, path, src, storemod.Options{Indent: b.opts.Indent})
		if err != nil {
			return "", nil, err
		}

		return out.Code, nil, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", component.ErrUnsupportedInputKind, path)
	}
}

func (b *Batch) skip(ctx context.Context, res FileResult, reason string) FileResult {
	res.Status = StatusSkipped
	res.Reason = reason

	b.opts.Metrics.RecordDocument(ctx, string(res.Kind), observability.StatusSkipped, 0)
	b.opts.Logger.InfoContext(ctx, "skipped", "path", res.Path, "reason", reason)

	return res
}

func (b *Batch) fail(ctx context.Context, res FileResult, err error) FileResult {
	res.Status = StatusFailed
	res.Err = err
	res.Reason = err.Error()

	if res.Kind != KindComponent {
		b.opts.Metrics.RecordDocument(ctx, string(res.Kind), observability.StatusError, 0)
	}

	b.opts.Logger.ErrorContext(ctx, "conversion failed", "path", res.Path, "kind", res.Kind, "error", err)

	return res
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
