package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	category  string // category key; inferred from the units when empty
	precision int    // fractional digits for linear results; -1 uses config
	quiet     bool   // print only the number
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{precision: -1}

	cmd := &cobra.Command{
		Use:   "convert VALUE FROM TO",
		Short: "Convert a value between two units",
		Long: `Convert a value from one unit to another.

The category is inferred when both units belong to exactly one category.
Put flags first and end them with -- when the value is negative, so it is
not read as a flag.

Examples:
  unitconv convert 1 meter foot
  unitconv convert 100 celsius fahrenheit
  unitconv convert 2.5 kilogram pound --precision 2
  unitconv convert -- -40 celsius fahrenheit
  unitconv convert -q -- -3.5 meter foot`,
		Args: cobra.ExactArgs(3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 || len(args) > 2 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeUnits(opts.category), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "category of the units (inferred when omitted)")
	cmd.Flags().IntVarP(&opts.precision, "precision", "p", -1, "fractional digits for linear results (default from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print only the result")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, value, from, to string, opts convertOpts) error {
	runner, err := c.newRunner(ctx, opts.precision, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Convert(ctx, pipeline.Request{
		Value:    value,
		From:     from,
		To:       to,
		Category: opts.category,
	})
	if err != nil {
		return err
	}

	if opts.quiet {
		fmt.Fprintln(stdout, res.Formatted)
		return nil
	}
	fmt.Fprintf(stdout, "%s %s = %s %s\n",
		StyleValue.Render(res.Value), StyleDim.Render(res.FromSymbol),
		StyleNumber.Render(res.Formatted), StyleDim.Render(res.ToSymbol))
	return nil
}
