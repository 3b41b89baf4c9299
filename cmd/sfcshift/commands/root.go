// Package commands implements CLI command handlers for sfcshift.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/config"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
	"github.com/Sumatoshi-tech/sfcshift/pkg/version"
)

// Exit codes.
const (
	exitFailure           = 1
	exitConversionFailure = 2
)

// ErrConversionFailed is returned when at least one file of a run failed.
var ErrConversionFailed = errors.New("conversion failed")

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if errors.Is(err, ErrConversionFailed) || errors.Is(err, config.ErrSchemaViolation) {
		return exitConversionFailure
	}

	return exitFailure
}

// app is the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	verbose    bool
	quiet      bool
	noColor    bool
	logJSON    bool
}

// NewRootCommand builds the sfcshift command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sfcshift",
		Short: "Convert single-file components between authoring styles",
		Long: `sfcshift converts single-file components between the object and the
class authoring styles and rewrites route tables and store modules into
typed TypeScript.

Commands:
  convert   Convert a component, or mirror a whole tree into an output root
  routes    Rewrite a route-table module
  store     Rewrite a store module
  blocks    List the blocks of a component
  inspect   Show the extracted component model
  config    Validate and show configuration
  mcp       Serve the conversions as MCP tools on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: .sfcshift.yaml in . or $HOME)")
	flags.StringVar(&a.envFile, "env-file", "", "load SFCSHIFT_* variables from a dotenv file before reading config")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&a.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newConvertCommand(a),
		newRoutesCommand(a),
		newStoreCommand(a),
		newBlocksCommand(a),
		newInspectCommand(a),
		newConfigCommand(a),
		newMCPCommand(a),
		newVersionCommand(),
	)

	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.envFile != "" {
		// Variables already set in the environment win.
		if err := godotenv.Load(a.envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	return config.LoadConfig(a.configPath)
}

// telemetry initializes logging, tracing and metrics for one command run.
// The returned providers must be shut down by the caller.
func (a *app) telemetry(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) (observability.Providers, error) {
	oc := observability.DefaultConfig()
	oc.ServiceVersion = version.Version
	oc.Mode = mode
	oc.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	oc.MetricsFile = cfg.Observability.MetricsFile
	oc.LogJSON = cfg.Observability.LogJSON || a.logJSON
	oc.LogLevel = observability.ParseLevel(cfg.Observability.LogLevel)
	oc.LogOutput = cmd.ErrOrStderr()

	switch {
	case a.quiet:
		oc.LogLevel = slog.LevelError
	case a.verbose:
		oc.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(oc)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}

func shutdown(providers observability.Providers) {
	if err := providers.Shutdown(context.Background()); err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
