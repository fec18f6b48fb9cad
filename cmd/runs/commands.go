package runs

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-harvest/internal/repository"
)

// StoreFactory opens the run store; the returned cleanup releases its connections
type StoreFactory func(ctx context.Context) (repository.HarvestRepository, func(), error)

// NewRunsCommand creates the runs command
func NewRunsCommand(factory StoreFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect harvest runs stored with --save",
		Long:  `List stored harvest runs and print the records of a single run.`,
	}

	cmd.AddCommand(NewListCommand(factory))
	cmd.AddCommand(NewShowCommand(factory))

	return cmd
}
