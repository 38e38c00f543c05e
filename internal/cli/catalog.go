package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/session"
	"github.com/matzehuels/unitconv/pkg/units"
)

// categoriesCommand lists the unit categories.
func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List unit categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := units.Default()
			rows := [][]string{}
			for _, ci := range reg.Categories() {
				rows = append(rows, []string{ci.Key, ci.Name, ci.Kind.String(), fmt.Sprint(len(reg.Units(ci.Key)))})
			}
			printTable([]string{"Key", "Name", "Kind", "Units"}, rows, nil)
			return nil
		},
	}
}

// unitsCommand lists the units of one category.
func (c *CLI) unitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "units CATEGORY",
		Short:             "List the units of a category",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := units.Default().Category(args[0])
			if !ok {
				return errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", args[0])
			}
			rows := [][]string{}
			for _, u := range cat.Units() {
				factor := "—"
				if u.HasFactor {
					factor = convert.FormatShortest(u.Factor)
				}
				rows = append(rows, []string{u.Key, u.Name, u.Symbol, factor})
			}
			printTable([]string{"Key", "Name", "Symbol", "Factor"}, rows, nil)
			return nil
		},
	}
}

// tableCommand converts a value into every unit of a category.
func (c *CLI) tableCommand() *cobra.Command {
	precision := -1
	cmd := &cobra.Command{
		Use:   "table CATEGORY VALUE FROM",
		Short: "Convert a value into every unit of a category",
		Example: `  unitconv table length 1 mile
  unitconv table temperature 20 celsius`,
		Args: cobra.ExactArgs(3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return completeCategories(cmd, args, toComplete)
			case 2:
				return completeUnits(args[0]), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTable(cmd.Context(), args[0], args[1], args[2], precision)
		},
	}
	cmd.Flags().IntVarP(&precision, "precision", "p", -1, "fractional digits for linear results (default from config)")
	return cmd
}

func (c *CLI) runTable(ctx context.Context, category, value, from string, precision int) error {
	runner, err := c.newRunner(ctx, precision, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	rows, err := runner.ConvertAll(ctx, value, from, category)
	if err != nil {
		return err
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Unit.Name, r.Formatted, r.Unit.Symbol}
	}
	printTable([]string{"Unit", "Value", ""}, cells, func(i int) bool {
		return i < len(rows) && rows[i].Unit.Key == from
	})
	return nil
}

// presetsCommand lists the common-conversion shortcuts.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List common conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{}
			for _, p := range session.Presets() {
				rows = append(rows, []string{p.Label, p.Category, p.From + " " + iconArrow + " " + p.To})
			}
			printTable([]string{"Preset", "Category", "Units"}, rows, nil)
			return nil
		},
	}
}

// =============================================================================
// Completion Helpers
// =============================================================================

func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var keys []string
	for _, ci := range units.Default().Categories() {
		keys = append(keys, ci.Key+"\t"+ci.Name)
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// completeUnits lists unit keys of one category, or of all categories when
// category is empty.
func completeUnits(category string) []string {
	reg := units.Default()
	var keys []string
	for _, ci := range reg.Categories() {
		if category != "" && ci.Key != category {
			continue
		}
		for _, u := range reg.Units(ci.Key) {
			keys = append(keys, u.Key+"\t"+u.Name)
		}
	}
	return keys
}
