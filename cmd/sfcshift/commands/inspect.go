package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/convert"
	"github.com/Sumatoshi-tech/sfcshift/pkg/sfc"
)

// blocksReport is the structured form of the blocks command output.
type blocksReport struct {
	Blocks  []sfc.Block  `json:"blocks"            yaml:"blocks"`
	Skipped []sfc.Marker `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Open    int          `json:"open"              yaml:"open"`
}

// inspectReport is the structured form of the inspect command output.
type inspectReport struct {
	Shape       component.Shape        `json:"shape"                 yaml:"shape"`
	Diagnostics []component.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func newBlocksCommand(_ *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "blocks <file.vue>",
		Short: "List the top-level blocks of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var seg sfc.Segmenter

			report := blocksReport{Blocks: seg.Segment(string(src))}
			report.Skipped = seg.Skipped
			report.Open = seg.Depth()

			if format != FormatText {
				return writeData(cmd.OutOrStdout(), format, report)
			}

			writeBlocks(cmd.OutOrStdout(), report.Blocks, report.Skipped, report.Open)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatText, "output format: text, json, yaml")

	return cmd
}

func newInspectCommand(a *app) *cobra.Command {
	var format, style string

	cmd := &cobra.Command{
		Use:   "inspect <file.vue>",
		Short: "Show the component model extracted from a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			if style == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}

				style = cfg.Convert.From
			}

			from, err := component.ParseStyle(style)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			// The target style is irrelevant to extraction.
			conv, err := convert.New(convert.Options{From: from, To: from})
			if err != nil {
				return err
			}

			m, err := conv.Extract(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			report := inspectReport{Shape: m.Shape(), Diagnostics: m.Diagnostics}

			if format != FormatText {
				return writeData(cmd.OutOrStdout(), format, report)
			}

			writeShape(cmd.OutOrStdout(), report.Shape)
			writeDiagnostics(cmd.OutOrStdout(), args[0], report.Diagnostics)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatText, "output format: text, json, yaml")
	cmd.Flags().StringVar(&style, "style", "", "authoring style of the component: object or class (default: convert.from)")

	return cmd
}
