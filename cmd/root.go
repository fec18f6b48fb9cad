package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-harvest/internal/logging"
)

var (
	verbose bool
	logJSON bool

	// logger is rebuilt from the persistent flags before any command runs
	logger = zerolog.Nop()
)

// rootCmd runs a harvest when invoked without a subcommand
var rootCmd = &cobra.Command{
	Use:   "ytharvest [CHANNEL_URL] [LIMIT]",
	Short: "Harvest statistics and English auto-captions from a YouTube channel",
	Long: `Resolve a YouTube channel, list its most recent uploads, fetch view/like/comment
statistics and English auto-generated captions for each, and write the records to a JSON file.

Missing CHANNEL_URL or LIMIT arguments are prompted for on stdin.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(cmd.ErrOrStderr(), logging.Options{Verbose: verbose, JSON: logJSON})
	},
	RunE: runHarvest,
}

// Execute runs the root command and exits non-zero on failure. An interrupt cancels the running harvest.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
}
