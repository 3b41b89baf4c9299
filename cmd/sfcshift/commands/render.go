package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/convert"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
	"github.com/Sumatoshi-tech/sfcshift/pkg/textutil"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

func checkFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (use text, json or yaml)", ErrUnknownFormat, format)
	}
}

// writeData encodes v as JSON or YAML.
func writeData(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	return tbl
}

func statusColor(status string) *color.Color {
	switch status {
	case convert.StatusConverted:
		return color.New(color.FgGreen)
	case convert.StatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// writeReport renders a batch report as a table followed by a summary line.
func writeReport(w io.Writer, report *convert.Report, verbose bool) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"File", "Kind", "Status", "Detail"})

	for _, f := range report.Files {
		if f.Status == convert.StatusConverted && !verbose && len(f.Diagnostics) == 0 {
			continue
		}

		detail := f.Reason
		if f.Status == convert.StatusConverted {
			detail = f.Output
			if len(f.Diagnostics) > 0 {
				detail = fmt.Sprintf("%d anomal%s", len(f.Diagnostics), plural(len(f.Diagnostics), "y", "ies"))
			}
		}

		tbl.AppendRow(table.Row{f.Path, f.Kind, statusColor(f.Status).Sprint(f.Status), detail})
	}

	if tbl.Length() > 0 {
		tbl.Render()
	}

	writeSummary(w, report)
}

func writeSummary(w io.Writer, report *convert.Report) {
	parts := []string{
		color.New(color.FgGreen).Sprintf("%d converted", report.Converted),
		color.New(color.FgRed).Sprintf("%d failed", report.Failed),
		color.New(color.FgYellow).Sprintf("%d skipped", report.Skipped),
	}

	fmt.Fprintf(w, "%s, %s produced\n", strings.Join(parts, ", "), humanize.Bytes(report.Written))
}

func writeDiagnostics(w io.Writer, name string, diags []component.Diagnostic) {
	for _, d := range diags {
		where := name
		if d.Line > 0 {
			where = fmt.Sprintf("%s:%d", name, d.Line)
		}

		color.New(color.FgYellow).Fprintf(w, "%s: %s: %s\n", where, d.Kind, d.Message)
	}
}

// writeBlocks renders segmented blocks as a table.
func writeBlocks(w io.Writer, blocks []sfc.Block, skipped []sfc.Marker, open int) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "Block", "Attributes", "Lines", "Size"})

	for i, b := range blocks {
		attrs := make([]string, 0, len(b.Attrs))
		for _, a := range b.Attrs {
			attrs = append(attrs, a.Key+"="+a.Value)
		}

		tbl.AppendRow(table.Row{i + 1, b.Type, strings.Join(attrs, " "), textutil.CountLines(b.Body()), humanize.Bytes(uint64(len(b.Content)))})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d blocks", len(blocks))})
	tbl.Render()

	for _, m := range skipped {
		color.New(color.FgYellow).Fprintf(w, "skipped closing marker </%s> at offset %d\n", m.Type, m.Offset)
	}

	if open > 0 {
		color.New(color.FgRed).Fprintf(w, "%d region(s) left open\n", open)
	}
}

// writeShape renders a component shape as a two-column table.
func writeShape(w io.Writer, shape component.Shape) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Section", "Members"})

	rows := []struct {
		name    string
		members []string
	}{
		{"name", []string{shape.Name}},
		{"options", shape.Opaque},
		{"props", shape.Props},
		{"data", shape.Data},
		{"computed", shape.Computed},
		{"store-bound", shape.StoreBound},
		{"watch", shape.Watch},
		{"methods", shape.Methods},
		{"lifecycle", shape.Lifecycle},
		{"imports", shape.Imports},
	}

	for _, r := range rows {
		if len(r.members) == 0 {
			continue
		}

		tbl.AppendRow(table.Row{r.name, strings.Join(r.members, ", ")})
	}

	tbl.Render()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
