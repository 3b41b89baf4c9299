package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/config"
	"github.com/Sumatoshi-tech/sfcshift/pkg/convert"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
	"github.com/Sumatoshi-tech/sfcshift/pkg/persist"
)

// ErrWatchNeedsDir is returned when --watch is given a single file.
var ErrWatchNeedsDir = errors.New("--watch needs a directory")

type convertFlags struct {
	from        string
	to          string
	plugins     []string
	indent      string
	output      string
	format      string
	workers     int
	maxFileSize string
	metricsFile string
	report      string
	dryRun      bool
	incremental bool
	diff        bool
	watch       bool
}

func newConvertCommand(a *app) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Convert a component or a whole tree",
		Long: `Convert a single-file component between authoring styles.

Given a file, the converted document is written to stdout, or to --output.
Given a directory, every component below it, every route table under a
router directory and every store module under a store directory is
converted and mirrored into --output. Route tables and store modules are
written with a .ts extension. Other files are not copied.

Examples:
  sfcshift convert src/components/Card.vue
  sfcshift convert --diff src/components/Card.vue
  sfcshift convert src -o dist --workers 8
  sfcshift convert src -o dist --incremental --report report.json
  sfcshift convert src -o dist --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConvert(cmd, f, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "", "source authoring style: object or class")
	flags.StringVar(&f.to, "to", "", "target authoring style: object or class")
	flags.StringSliceVarP(&f.plugins, "plugins", "p", nil, "plugin passes to run in order (default: all)")
	flags.StringVar(&f.indent, "indent", "", "indentation unit of generated code")
	flags.StringVarP(&f.output, "output", "o", "", "output file or root directory")
	flags.StringVar(&f.format, "format", FormatText, "report format for trees: text, json, yaml")
	flags.IntVar(&f.workers, "workers", 0, "number of parallel workers (0 = use CPU count)")
	flags.StringVar(&f.maxFileSize, "max-file-size", "", "skip larger files (e.g. '512KB', '2MB'; 0 = no limit)")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write conversion metrics in Prometheus text format on exit")
	flags.StringVar(&f.report, "report", "", "also save the tree report to a .json or .yaml file, .lz4 appended compresses it")
	flags.BoolVar(&f.dryRun, "dry-run", false, "convert without writing anything")
	flags.BoolVar(&f.incremental, "incremental", false, "skip inputs unchanged since the last run into --output")
	flags.BoolVar(&f.diff, "diff", false, "print a diff against the input instead of the output")
	flags.BoolVarP(&f.watch, "watch", "w", false, "keep converting files as they change")

	return cmd
}

// apply overrides configuration with the flags given on the command line.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("from") {
		cfg.Convert.From = f.from
	}

	if flags.Changed("to") {
		cfg.Convert.To = f.to
	}

	if flags.Changed("plugins") {
		cfg.Convert.Plugins = f.plugins
	}

	if flags.Changed("indent") {
		cfg.Convert.Indent = f.indent
	}

	if flags.Changed("workers") {
		cfg.Batch.Workers = f.workers
	}

	if flags.Changed("max-file-size") {
		cfg.Batch.MaxFileSize = f.maxFileSize
	}

	if flags.Changed("incremental") {
		cfg.Batch.Incremental = f.incremental
	}

	if flags.Changed("metrics-file") {
		cfg.Observability.MetricsFile = f.metricsFile
	}
}

func (a *app) runConvert(cmd *cobra.Command, f *convertFlags, path string) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	f.apply(cmd, cfg)

	if f.report != "" {
		if _, err := persist.CodecFor(f.report); err != nil {
			return err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	if f.watch && !info.IsDir() {
		return ErrWatchNeedsDir
	}

	mode := observability.ModeCLI
	if f.watch {
		mode = observability.ModeWatch
	}

	providers, err := a.telemetry(cmd, cfg, mode)
	if err != nil {
		return err
	}

	defer shutdown(providers)

	metrics, err := observability.NewConversionMetrics(providers.Meter)
	if err != nil {
		return err
	}

	batch, err := newBatch(cfg, f, providers, metrics)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return a.convertFile(cmd, batch, f, path)
	}

	report, err := batch.Run(cmd.Context(), path)
	if err != nil {
		return err
	}

	if err := a.writeTreeReport(cmd.OutOrStdout(), f, report); err != nil {
		return err
	}

	if f.report != "" {
		if err := saveReport(f.report, report); err != nil {
			return err
		}
	}

	if f.watch {
		return a.watch(cmd, batch, cfg, path)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrConversionFailed, report.Failed)
	}

	return nil
}

func newBatch(
	cfg *config.Config,
	f *convertFlags,
	providers observability.Providers,
	metrics *observability.ConversionMetrics,
) (*convert.Batch, error) {
	from, err := component.ParseStyle(cfg.Convert.From)
	if err != nil {
		return nil, err
	}

	to, err := component.ParseStyle(cfg.Convert.To)
	if err != nil {
		return nil, err
	}

	maxSize, err := cfg.Batch.MaxFileBytes()
	if err != nil {
		return nil, err
	}

	conv, err := convert.New(convert.Options{
		From:    from,
		To:      to,
		Plugins: cfg.Convert.Plugins,
		Indent:  cfg.Convert.Indent,
		Logger:  providers.Logger,
		Tracer:  providers.Tracer,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}

	return convert.NewBatch(conv, convert.BatchOptions{
		Layout:      convert.Layout{RouterDirs: cfg.Batch.RouterDirs, StoreDirs: cfg.Batch.StoreDirs},
		OutputRoot:  f.output,
		DryRun:      f.dryRun || f.output == "",
		Diff:        f.diff,
		Skip:        cfg.Batch.Skip,
		MaxFileSize: maxSize,
		Workers:     cfg.Batch.Workers,
		Indent:      cfg.Convert.Indent,
		Incremental: cfg.Batch.Incremental,
		Logger:      providers.Logger,
		Metrics:     metrics,
	}), nil
}

// convertFile converts one file. The result goes to stdout unless an output
// file is named.
func (a *app) convertFile(cmd *cobra.Command, batch *convert.Batch, f *convertFlags, path string) error {
	res := batch.File(cmd.Context(), filepath.Dir(path), path)

	switch res.Status {
	case convert.StatusFailed:
		return fmt.Errorf("%w: %s: %w", ErrConversionFailed, path, res.Err)
	case convert.StatusSkipped:
		return fmt.Errorf("%s: %s", path, res.Reason)
	case "":
		return fmt.Errorf("%w: %s", component.ErrUnsupportedInputKind, path)
	}

	if !a.quiet {
		writeDiagnostics(cmd.ErrOrStderr(), path, res.Diagnostics)
	}

	if f.diff {
		_, err := io.WriteString(cmd.OutOrStdout(), res.Patch)

		return err
	}

	if f.output != "" && !f.dryRun {
		return writeOutput(f.output, res.Content)
	}

	_, err := io.WriteString(cmd.OutOrStdout(), res.Content)

	return err
}

func (a *app) writeTreeReport(w io.Writer, f *convertFlags, report *convert.Report) error {
	if f.format != FormatText {
		return writeData(w, f.format, report)
	}

	if a.quiet {
		return nil
	}

	if f.diff {
		for _, file := range report.Files {
			if _, err := io.WriteString(w, file.Patch); err != nil {
				return err
			}
		}
	}

	for _, file := range report.Files {
		writeDiagnostics(w, file.Path, file.Diagnostics)
	}

	writeReport(w, report, a.verbose)

	return nil
}

func (a *app) watch(cmd *cobra.Command, batch *convert.Batch, cfg *config.Config, root string) error {
	out := cmd.OutOrStdout()

	w, err := convert.NewWatcher(batch, root, convert.WatchOptions{
		Debounce: cfg.Watch.Debounce,
		OnResult: func(res convert.FileResult) {
			if a.quiet && res.Status != convert.StatusFailed {
				return
			}

			detail := res.Output
			if res.Status != convert.StatusConverted {
				detail = res.Reason
			}

			fmt.Fprintf(out, "%s %s %s\n", statusColor(res.Status).Sprint(res.Status), res.Path, detail)
			writeDiagnostics(out, res.Path, res.Diagnostics)
		},
	})
	if err != nil {
		return err
	}

	return w.Run(cmd.Context())
}

func saveReport(path string, report *convert.Report) error {
	codec, err := persist.CodecFor(path)
	if err != nil {
		return err
	}

	if err := persist.SaveFile(path, codec, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return nil
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
