package runs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/output"
)

// NewShowCommand creates the show run command. Records are printed in the output file format.
func NewShowCommand(factory StoreFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [RUN_ID]",
		Short: "Print the records of a stored harvest run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := uuid.Parse(args[0])
			if err != nil {
				return apperrors.Wrap(err, apperrors.CodeInvalidArg, fmt.Sprintf("invalid run ID %q", args[0]))
			}

			store, cleanup, err := factory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer cleanup()

			// Distinguishes an unknown run from a run with no records
			if _, err := store.GetRun(cmd.Context(), runID); err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			records, err := store.ListRecords(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("failed to get run records: %w", err)
			}

			return output.Encode(cmd.OutOrStdout(), records)
		},
	}

	return cmd
}
