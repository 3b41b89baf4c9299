package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/config"
)

// ErrNoConfigFile is returned by config validate when no file is named.
var ErrNoConfigFile = errors.New("no config file given (pass a path or --config)")

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate and show configuration",
	}

	cmd.AddCommand(newConfigValidateCommand(a), newConfigShowCommand(a), newConfigSchemaCommand())

	return cmd
}

func newConfigValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a config file against the schema and the value rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) == 1 {
				path = args[0]
			}

			if path == "" {
				return ErrNoConfigFile
			}

			out := cmd.OutOrStdout()

			violations, err := config.ValidateFile(path)
			if err != nil {
				if !errors.Is(err, config.ErrSchemaViolation) {
					return err
				}

				writeViolations(out, path, violations)

				return err
			}

			if _, err := config.LoadConfig(path); err != nil {
				color.New(color.FgRed).Fprintf(out, "%s is invalid\n", path)

				return err
			}

			color.New(color.FgGreen).Fprintf(out, "%s is valid\n", path)

			return nil
		},
	}
}

func writeViolations(w io.Writer, path string, violations []config.Violation) {
	color.New(color.FgRed).Fprintf(w, "%s does not match the schema\n", path)

	for _, v := range violations {
		color.New(color.FgRed).Fprintf(w, "  - %s: %s\n", v.Field, v.Description)
	}
}

func newConfigShowCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == FormatText {
				format = FormatYAML
			}

			if err := checkFormat(format); err != nil {
				return err
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			return writeData(cmd.OutOrStdout(), format, cfg)
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatYAML, "output format: json, yaml")

	return cmd
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(config.Schema()))

			return err
		},
	}
}
