package runs

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list runs command
func NewListCommand(factory StoreFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored harvest runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			store, cleanup, err := factory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer cleanup()

			runs, err := store.ListRuns(cmd.Context(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No harvest runs found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tCREATED\tCHANNEL ID\tRECORDS\tLIMIT\tREFERENCE")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					run.ID,
					run.CreatedAt.Local().Format(time.DateTime),
					run.ChannelID,
					run.RecordCount,
					run.RequestedLimit,
					run.ChannelRef,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	cmd.Flags().Int("offset", 0, "Number of runs to skip")

	return cmd
}
