// Package cli builds the command line interface shared by the nebula-dl and
// nebula-tui binaries: flags, configuration loading, logging and the wiring
// of the download Manager.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/handiism/nebula-downloader/internal/config"
	"github.com/handiism/nebula-downloader/internal/download"
	"github.com/handiism/nebula-downloader/internal/fetch"
	"github.com/handiism/nebula-downloader/internal/http"
	"github.com/handiism/nebula-downloader/internal/metadata"
	"github.com/handiism/nebula-downloader/internal/nebula"
)

// ErrInterrupted is returned when the run was cancelled by a signal.
var ErrInterrupted = errors.New("interrupted")

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// PrompterFactory creates the operator prompt for a command. The returned
// recorder, when not nil, receives every progress event.
type PrompterFactory func(cmd *cobra.Command) (download.Prompter, func(download.ProgressEvent))

// Flags holds the command line options.
type Flags struct {
	ConfigPath string
	Output     string
	Channels   []string
	Category   string
	Playlist   bool
	Verbose    bool
	DryRun     bool
	SaveConfig bool
}

// NewRootCommand creates the root command. use names the binary.
func NewRootCommand(use, short string, newPrompter PrompterFactory) *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, newPrompter)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.ConfigPath, "config", "c", "", "Path to YAML config file")
	f.StringVarP(&flags.Output, "output", "o", "", "Download root directory (overrides config)")
	f.StringSliceVar(&flags.Channels, "channel", nil, "Channel slug to process, repeatable (overrides config and discovery)")
	f.StringVar(&flags.Category, "category", "", "Discover channels from this category (overrides config)")
	f.BoolVar(&flags.Playlist, "playlist", false, "Create a playlist per channel")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Show verbose output")
	f.BoolVar(&flags.DryRun, "dry-run", false, "List and filter episodes without downloading")
	f.BoolVar(&flags.SaveConfig, "save-config", false, "Write the effective settings to --config and exit")

	return cmd
}

// Execute runs cmd and maps its outcome to a process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	return exitCode(cmd.ErrOrStderr(), err)
}

func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInterrupted):
		fmt.Fprintln(w, "Download cancelled.")
		return ExitInterrupted
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitFailure
	}
}

// LoadSettings reads the config file and environment, then applies the
// flags that were set on the command line.
func LoadSettings(flags Flags, set *pflag.FlagSet) (*config.Settings, error) {
	settings, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if flags.Output != "" {
		settings.Downloader.DownloadPath = flags.Output
	}
	if set.Changed("channel") {
		settings.SetChannels(flags.Channels)
	}
	if set.Changed("category") {
		settings.Filters.CategorySearch = flags.Category
	}
	if flags.Playlist {
		settings.Downloader.CreatePlaylist = true
	}
	return settings, nil
}

func run(cmd *cobra.Command, flags Flags, newPrompter PrompterFactory) error {
	settings, err := LoadSettings(flags, cmd.Flags())
	if err != nil {
		return err
	}

	if flags.SaveConfig {
		if flags.ConfigPath == "" {
			return errors.New("--save-config requires --config")
		}
		if err := settings.Save(flags.ConfigPath); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", flags.ConfigPath)
		return nil
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := NewLogger(cmd.ErrOrStderr(), flags.Verbose)

	if !flags.DryRun {
		if _, err := exec.LookPath(settings.Downloader.YtDlpPath); err != nil {
			logger.Warn().Err(err).Msg("yt-dlp not found, video downloads will fail")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompter, record := newPrompter(cmd)
	manager := download.NewManager(settings, newDeps(settings, logger, prompter), download.Options{DryRun: flags.DryRun}, func(e download.ProgressEvent) {
		LogEvent(logger, e)
		if record != nil {
			record(e)
		}
	})

	start := time.Now()
	err = manager.Run(ctx)

	sum := manager.Summary()
	logger.Info().
		Int("channels_processed", sum.ChannelsProcessed).
		Int("channels_skipped", sum.ChannelsSkipped).
		Int("channels_failed", sum.ChannelsFailed).
		Int("episodes_downloaded", sum.EpisodesDownloaded).
		Int("episodes_failed", sum.EpisodesFailed).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")

	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return err
}

func newDeps(settings *config.Settings, logger zerolog.Logger, prompter download.Prompter) download.Deps {
	hc := http.NewClient(settings.API.UserAgent, settings.API.Timeout)

	auth := nebula.NewAuthorizer(hc, settings.API.UsersBaseURL, settings.API.UserToken, settings.API.AuthorizationHeader,
		logger.With().Str("component", "auth").Logger())
	client := nebula.NewClient(hc, auth, settings.API.ContentBaseURL,
		logger.With().Str("component", "nebula").Logger())

	fetcher := fetch.New(hc, fetch.Options{
		YtDlpPath:        settings.Downloader.YtDlpPath,
		UserAgent:        settings.API.UserAgent,
		ThumbnailMaxSize: settings.Downloader.ThumbnailMaxSize,
	}, logger.With().Str("component", "fetch").Logger())

	return download.Deps{
		Catalog:  client,
		Streams:  client,
		Fetcher:  fetcher,
		Metadata: metadata.NewPersister(),
		Prompter: prompter,
	}
}

// NewLogger creates the console logger of a run, tagged with a fresh run id.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
}

// LogEvent writes a progress event at the matching log level.
func LogEvent(logger zerolog.Logger, e download.ProgressEvent) {
	var ev *zerolog.Event
	switch e.Level {
	case download.LevelVerbose:
		ev = logger.Debug()
	case download.LevelWarning:
		ev = logger.Warn()
	case download.LevelError:
		ev = logger.Error()
	case download.LevelSuccess:
		ev = logger.Info().Bool("ok", true)
	default:
		ev = logger.Info()
	}
	ev.Msg(e.Message)
}
