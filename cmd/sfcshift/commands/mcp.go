package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/mcp"
	"github.com/Sumatoshi-tech/sfcshift/pkg/observability"
	"github.com/Sumatoshi-tech/sfcshift/pkg/version"
)

func newMCPCommand(a *app) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the conversions as tools that AI agents can discover
and invoke:
  - sfc_convert: Convert a component between authoring styles
  - sfc_inspect: Report the extracted component model
  - sfc_segment: Split a component into its blocks
  - routes_rewrite: Rewrite a route-table module into TypeScript
  - store_rewrite: Rewrite a store module into TypeScript`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			// Stdout carries the protocol; logs go to stderr as JSON.
			cfg.Observability.LogJSON = true
			if debug {
				cfg.Observability.LogLevel = "debug"
			}

			providers, err := a.telemetry(cmd, cfg, observability.ModeMCP)
			if err != nil {
				return err
			}

			defer shutdown(providers)

			metrics, err := observability.NewConversionMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: metrics,
				Tracer:  providers.Tracer,
				Version: version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
