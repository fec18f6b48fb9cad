package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-harvest/internal/config"
	apperrors "github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/output"
	"github.com/Taichi-iskw/yt-harvest/internal/repository"
	"github.com/Taichi-iskw/yt-harvest/internal/service/caption"
	"github.com/Taichi-iskw/yt-harvest/internal/service/common"
	"github.com/Taichi-iskw/yt-harvest/internal/service/harvest"
	"github.com/Taichi-iskw/yt-harvest/internal/service/youtube"
)

var (
	harvestOutput string
	harvestSave   bool
)

func runHarvest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	channelRef, limit, err := readHarvestInput(bufio.NewReader(cmd.InOrStdin()), out, args)
	if err != nil {
		return err
	}

	// Connect before harvesting so a bad database_url fails fast
	var runStore repository.HarvestRepository
	if harvestSave {
		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()
		runStore = repository.NewHarvestRepository(dbPool)
	}

	svc, err := youtube.NewService(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	api := youtube.NewAPI(svc)

	fetcher := caption.NewFetcher(common.NewCmdRunner(), caption.Options{
		YtDlpPath: cfg.YtDlpPath,
		OutputDir: cfg.SubtitlesDir,
		Language:  cfg.Language,
		Timeout:   cfg.CaptionTimeout,
	}, logger)

	harvester := harvest.NewHarvester(
		youtube.NewChannelResolver(api),
		youtube.NewUploadEnumerator(api),
		youtube.NewStatisticsBatcher(api),
		fetcher,
		caption.Normalize,
		logger,
	)
	harvester.OnProgress(func(position, total int) {
		fmt.Fprintf(out, "Processing %d/%d\n", position, total)
	})

	result, err := harvester.Run(ctx, channelRef, limit)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	outputPath := cfg.OutputFile
	if harvestOutput != "" {
		outputPath = harvestOutput
	}
	if err := output.WriteFile(outputPath, result.Records); err != nil {
		return err
	}

	if runStore != nil {
		if err := runStore.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("failed to save harvest run: %w", err)
		}
		logger.Info().Str("run_id", result.Run.ID.String()).Int("records", len(result.Records)).Msg("harvest run saved")
	}

	fmt.Fprintf(out, "Done. Saved as %s\n", outputPath)
	return nil
}

// readHarvestInput takes the channel reference and limit from args, prompting on in for whichever is missing
func readHarvestInput(in *bufio.Reader, out io.Writer, args []string) (string, int, error) {
	var channelRef, rawLimit string
	if len(args) > 0 {
		channelRef = args[0]
	}
	if len(args) > 1 {
		rawLimit = args[1]
	}

	var err error
	if strings.TrimSpace(channelRef) == "" {
		if channelRef, err = prompt(in, out, "Enter YouTube channel URL: "); err != nil {
			return "", 0, err
		}
	}
	channelRef = strings.TrimSpace(channelRef)
	if channelRef == "" {
		return "", 0, apperrors.New(apperrors.CodeInvalidArg, "channel URL must not be empty")
	}

	if strings.TrimSpace(rawLimit) == "" {
		if rawLimit, err = prompt(in, out, "Enter number of videos to fetch: "); err != nil {
			return "", 0, err
		}
	}
	limit, err := parseLimit(rawLimit)
	if err != nil {
		return "", 0, err
	}

	return channelRef, limit, nil
}

// parseLimit accepts a positive decimal integer
func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInvalidArg, fmt.Sprintf("number of videos must be an integer, got %q", raw))
	}
	if limit <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidArg, fmt.Sprintf("number of videos must be positive, got %d", limit))
	}
	return limit, nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", apperrors.New(apperrors.CodeInvalidArg, "unexpected end of input")
		}
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.Flags().StringVarP(&harvestOutput, "output", "o", "", "output file (default from config: final_output.json)")
	rootCmd.Flags().BoolVar(&harvestSave, "save", false, "also store the run in the configured PostgreSQL database")
}
