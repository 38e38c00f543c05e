package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/internal/config"
	"github.com/matzehuels/unitconv/pkg/history"
)

// historyCommand shows recent conversions.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		Long: `Show recent conversions recorded by the history backend.

Only the mongo backend keeps history across invocations; the memory
backend lives as long as one process (for example "unitconv serve").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.History.Backend != config.BackendMongo {
				printInfo("History backend is %q; nothing is kept between runs", c.Config.History.Backend)
				printDetail("Set [history] backend = \"mongo\" in the config file to persist conversions")
				return nil
			}
			store, err := c.newHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No conversions recorded")
				return nil
			}
			printHistory(recs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func printHistory(recs []history.Record) {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.CreatedAt.Local().Format("Jan 2 15:04:05"),
			r.Category,
			r.Input + " " + r.From,
			r.Output + " " + r.To,
		}
	}
	printTable([]string{"When", "Category", "From", "To"}, rows, nil)
}
