package caption

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/service/common"
	"github.com/Taichi-iskw/yt-harvest/internal/service/youtube"
)

// DefaultTimeout bounds a single yt-dlp invocation
const DefaultTimeout = 60 * time.Second

// Options configures the caption fetcher
type Options struct {
	YtDlpPath string        // yt-dlp executable
	OutputDir string        // directory holding <videoID>.<lang>.vtt artifacts
	Language  string        // auto-caption language code
	Timeout   time.Duration // hard bound per video
}

// Fetcher downloads auto-generated caption tracks with yt-dlp, best-effort
type Fetcher struct {
	cmdRunner common.CmdRunner
	opts      Options
	logger    zerolog.Logger
}

// NewFetcher creates a new Fetcher; zero option fields fall back to defaults
func NewFetcher(cmdRunner common.CmdRunner, opts Options, logger zerolog.Logger) *Fetcher {
	if opts.YtDlpPath == "" {
		opts.YtDlpPath = "yt-dlp"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "subs"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Fetcher{
		cmdRunner: cmdRunner,
		opts:      opts,
		logger:    logger,
	}
}

// OutputPrefix is the -o template handed to yt-dlp for videoID
func (f *Fetcher) OutputPrefix(videoID string) string {
	return filepath.Join(f.opts.OutputDir, videoID)
}

// Path is where the caption artifact of videoID lands on success
func (f *Fetcher) Path(videoID string) string {
	return f.OutputPrefix(videoID) + "." + f.opts.Language + ".vtt"
}

// Fetch asks yt-dlp for the auto-caption track of videoID and reports whether
// the artifact exists afterwards. Timeouts and tool failures are logged, never returned.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) bool {
	if err := f.fetch(ctx, videoID); err != nil {
		event := f.logger.Warn()
		if errors.Is(err, errors.CodeTimeout) {
			event = f.logger.Debug()
		}
		event.Err(err).Str("video_id", videoID).Msg("caption fetch failed")
	}

	_, err := os.Stat(f.Path(videoID))
	return err == nil
}

// killAfter is when the tool is killed so that the runner's pipe grace still ends within Timeout.
// Timeouts too short to hold the grace twice are used as-is.
func (f *Fetcher) killAfter() time.Duration {
	if f.opts.Timeout > 2*common.KillGrace {
		return f.opts.Timeout - common.KillGrace
	}
	return f.opts.Timeout
}

func (f *Fetcher) fetch(ctx context.Context, videoID string) error {
	if videoID == "" {
		return errors.New(errors.CodeInvalidArg, "video ID is required")
	}

	if err := os.MkdirAll(f.opts.OutputDir, 0755); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create subtitles directory")
	}

	// An artifact from an earlier run must not pass for this run's result
	if err := os.Remove(f.Path(videoID)); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, errors.CodeInternal, "failed to remove stale caption artifact")
	}

	ctx, cancel := context.WithTimeout(ctx, f.killAfter())
	defer cancel()

	args := []string{
		"--write-auto-sub",
		"--sub-lang", f.opts.Language,
		"--skip-download",
		"-o", f.OutputPrefix(videoID),
		youtube.WatchURL(videoID),
	}

	_, err := f.cmdRunner.Run(ctx, f.opts.YtDlpPath, args...)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout, "yt-dlp exceeded "+f.opts.Timeout.String())
	}
	return errors.Wrap(err, errors.CodeExternal, formatYtDlpError(err))
}

// formatYtDlpError provides short messages for common yt-dlp failures
func formatYtDlpError(err error) string {
	errMsg := err.Error()

	// cmd.Output keeps stderr on the exit error, where yt-dlp reports the reason
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		errMsg += " " + string(exitErr.Stderr)
	}

	switch {
	case stderrors.Is(err, exec.ErrNotFound), strings.Contains(errMsg, "no such file or directory"):
		return "yt-dlp is not installed or not found in PATH"
	case strings.Contains(errMsg, "Private video"):
		return "video is private"
	case strings.Contains(errMsg, "Video unavailable"):
		return "video is not available"
	case strings.Contains(errMsg, "There are no subtitles"):
		return "no auto-caption track"
	case strings.Contains(errMsg, "429"):
		return "rate limited by YouTube"
	default:
		return "yt-dlp failed"
	}
}
