package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sfcshift/pkg/routes"
	"github.com/Sumatoshi-tech/sfcshift/pkg/storemod"
)

// moduleRewrite rewrites one module file and returns the code with a short
// description of what changed.
type moduleRewrite func(cmd *cobra.Command, path string, src []byte) (code, note string, err error)

func newRoutesCommand(a *app) *cobra.Command {
	return newModuleCommand(a, &cobra.Command{
		Use:   "routes <file.js>",
		Short: "Rewrite a route-table module into TypeScript",
		Long: `Rewrite a route-table module: components bound to lazy loaders become
dynamic imports named after the file, and navigation guards get typed
parameters.`,
	}, func(cmd *cobra.Command, path string, src []byte) (string, string, error) {
		res, err := routes.Rewrite(cmd.Context(), path, src)
		if err != nil {
			return "", "", err
		}

		return res.Code, fmt.Sprintf("%d component(s) rewritten, %d guard(s) typed", res.Rewritten, res.Guards), nil
	}, nil)
}

func newStoreCommand(a *app) *cobra.Command {
	var indent string

	cmd := newModuleCommand(a, &cobra.Command{
		Use:   "store <file.js>",
		Short: "Rewrite a store module into TypeScript",
		Long: `Rewrite a store module: a state interface named after the file is
derived from the module's state, and the module object is bound to a typed
constant.`,
	}, func(cmd *cobra.Command, path string, src []byte) (string, string, error) {
		if !cmd.Flags().Changed("indent") {
			cfg, err := a.loadConfig()
			if err != nil {
				return "", "", err
			}

			indent = cfg.Convert.Indent
		}

		res, err := storemod.Rewrite(cmd.Context(), path, src, storemod.Options{Indent: indent})
		if err != nil {
			return "", "", err
		}

		return res.Code, fmt.Sprintf("interface %s with %d field(s)", res.Interface, len(res.Fields)), nil
	}, func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&indent, "indent", "", "indentation unit of the state interface")
	})

	return cmd
}

func newModuleCommand(a *app, cmd *cobra.Command, rewrite moduleRewrite, extraFlags func(*cobra.Command)) *cobra.Command {
	var output string

	cmd.Args = cobra.ExactArgs(1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		code, note, err := rewrite(cmd, args[0], src)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		if output == "" {
			_, err = io.WriteString(cmd.OutOrStdout(), code)

			return err
		}

		if err := writeOutput(output, code); err != nil {
			return err
		}

		if !a.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", output, note)
		}

		return nil
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	if extraFlags != nil {
		extraFlags(cmd)
	}

	return cmd
}
