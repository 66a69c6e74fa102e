package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/nebula-downloader/internal/config"
	"github.com/handiism/nebula-downloader/internal/filter"
	ioutils "github.com/handiism/nebula-downloader/internal/io"
	"github.com/handiism/nebula-downloader/internal/model"
	"github.com/handiism/nebula-downloader/internal/playlist"
	"github.com/handiism/nebula-downloader/internal/selection"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrPrompt wraps failures of the Prompter. They end the run since no
// further channel can be asked about.
var ErrPrompt = errors.New("prompt failed")

// Catalog lists channels and their episodes.
type Catalog interface {
	ChannelContent(ctx context.Context, channelSlug string) (*model.ChannelContent, error)
	ChannelSlugs(ctx context.Context, category string, maxPages int) ([]string, error)
}

// Streams resolves the streaming information of an episode.
type Streams interface {
	StreamingInfo(ctx context.Context, episodeSlug string) (*model.StreamingInfo, error)
}

// Fetcher retrieves episode assets to local paths.
type Fetcher interface {
	Thumbnail(ctx context.Context, url, dest string) error
	Video(ctx context.Context, manifest, dest string) error
	Subtitle(ctx context.Context, url, dest string) error
}

// MetadataPersister writes channel metadata and returns the channel directory.
type MetadataPersister interface {
	Persist(ctx context.Context, channelSlug string, details model.ChannelDetails, episodes []*model.Episode, root string) (string, error)
}

// Prompter asks the operator which episodes of a channel to download.
type Prompter interface {
	Select(ctx context.Context, view model.ChannelView) (model.SelectionRequest, error)
}

// Deps are the collaborators of a Manager.
type Deps struct {
	Catalog  Catalog
	Streams  Streams
	Fetcher  Fetcher
	Metadata MetadataPersister
	Prompter Prompter
}

// Options tune a single run.
type Options struct {
	// DryRun lists and partitions every channel without prompting or
	// touching the filesystem.
	DryRun bool
}

// Summary counts the outcome of a run.
type Summary struct {
	ChannelsProcessed  int
	ChannelsSkipped    int
	ChannelsFailed     int
	EpisodesDownloaded int
	EpisodesFailed     int
}

// Manager coordinates channel processing and episode downloads.
type Manager struct {
	settings *config.Settings
	filters  model.FilterSettings
	deps     Deps
	opts     Options
	playlist *playlist.Creator

	summary    Summary
	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, deps Deps, opts Options, onProgress func(ProgressEvent)) *Manager {
	m := &Manager{
		settings:   settings,
		filters:    settings.ToFilterSettings(),
		deps:       deps,
		opts:       opts,
		onProgress: onProgress,
	}
	if settings.Downloader.CreatePlaylist {
		m.playlist = playlist.NewCreator(playlist.ParseFormat(settings.Downloader.PlaylistFormat), true)
	}
	return m
}

// Run processes every channel in turn.
//
// A failing channel is reported and the next channel is processed; the
// returned error joins all channel failures. Cancellation of ctx and
// Prompter failures stop the run.
func (m *Manager) Run(ctx context.Context) error {
	slugs, err := m.channels(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		err := m.processChannel(ctx, slug)
		if err == nil {
			continue
		}

		m.summary.ChannelsFailed++
		errs = append(errs, fmt.Errorf("channel %s: %w", slug, err))
		if ctx.Err() != nil || errors.Is(err, ErrPrompt) {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Channel %s aborted: %v", slug, err), Level: LevelError})
	}

	return errors.Join(errs...)
}

// Summary returns the counts of the run so far.
func (m *Manager) Summary() Summary {
	return m.summary
}

// channels returns the allow-list when configured, otherwise the channels
// discovered from the video feed.
func (m *Manager) channels(ctx context.Context) ([]string, error) {
	if len(m.filters.Channels) > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Using %d channels from configuration", len(m.filters.Channels)), Level: LevelVerbose})
		return m.filters.Channels, nil
	}

	slugs, err := m.deps.Catalog.ChannelSlugs(ctx, m.filters.CategorySearch, m.settings.Filters.DiscoveryPages)
	if err != nil {
		return nil, fmt.Errorf("discover channels: %w", err)
	}

	if len(slugs) == 0 {
		m.progress(ProgressEvent{Message: "No channels found", Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Discovered %d channels", len(slugs)), Level: LevelInfo})
	}
	return slugs, nil
}

func (m *Manager) processChannel(ctx context.Context, slug string) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching channel %s", slug), Level: LevelInfo})

	content, err := m.deps.Catalog.ChannelContent(ctx, slug)
	if err != nil {
		return err
	}
	details := content.Details
	if details.Slug == "" {
		details.Slug = slug
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d episodes for %s", len(content.Episodes), slug), Level: LevelInfo})

	part := filter.Partition(m.filters, content.Episodes)
	m.progress(ProgressEvent{Message: fmt.Sprintf("%d included, %d excluded by filter", len(part.Included), len(part.Excluded)), Level: LevelInfo})

	view := model.ChannelView{
		Channel:  details,
		All:      content.Episodes,
		Included: part.Included,
		Excluded: part.Excluded,
	}

	if m.opts.DryRun {
		m.reportView(view)
		m.summary.ChannelsSkipped++
		return nil
	}

	req, err := m.deps.Prompter.Select(ctx, view)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPrompt, err)
	}

	sel := selection.ResolveRequest(req, part.Excluded, part.Included)
	for _, p := range sel.Problems {
		m.progress(ProgressEvent{Message: p.Error(), Level: LevelWarning})
	}

	if sel.Empty() {
		m.progress(ProgressEvent{Message: "No episodes selected for download.", Level: LevelInfo})
		m.summary.ChannelsSkipped++
		return nil
	}

	root := m.settings.Downloader.DownloadPath
	channelDir, err := m.deps.Metadata.Persist(ctx, slug, details, content.Episodes, root)
	if err != nil {
		return fmt.Errorf("persist metadata: %w", err)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved metadata for %s", slug), Level: LevelVerbose})

	episodes := make([]*model.Episode, 0, sel.Count())
	episodes = append(episodes, sel.Excluded...)
	episodes = append(episodes, sel.Included...)

	var downloaded []*model.DownloadTarget
	defer func() {
		m.writePlaylist(ctx, channelDir, details, downloaded)
	}()

	for _, ep := range episodes {
		target := model.NewChannelTarget(channelDir, slug, ep)
		if err := m.downloadEpisode(ctx, target); err != nil {
			m.summary.EpisodesFailed++
			return fmt.Errorf("episode %s: %w", ep.Slug, err)
		}
		downloaded = append(downloaded, target)
		m.summary.EpisodesDownloaded++
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", ep.Slug), Level: LevelSuccess})
	}

	m.summary.ChannelsProcessed++
	m.progress(ProgressEvent{Message: fmt.Sprintf("Finished channel %s (%d episodes)", slug, len(downloaded)), Level: LevelSuccess})
	return nil
}

// downloadEpisode runs the asset steps of one target in order. Every step
// after directory creation is attempted even when an earlier one failed,
// except that video and subtitles need the streaming information.
func (m *Manager) downloadEpisode(ctx context.Context, t *model.DownloadTarget) error {
	ep := t.Episode
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s - %s", ep.Slug, ep.Title), Level: LevelVerbose})

	if err := ioutils.EnsureDir(t.Dir); err != nil {
		return fmt.Errorf("create episode directory: %w", err)
	}

	var errs []error
	fail := func(step string, err error) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s of %s: %v", step, ep.Slug, err), Level: LevelError})
		errs = append(errs, fmt.Errorf("%s: %w", step, err))
	}

	if ep.HasThumbnail() {
		if err := m.deps.Fetcher.Thumbnail(ctx, ep.ThumbnailURL, t.ThumbnailPath()); err != nil {
			fail("thumbnail", err)
		}
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("No thumbnail for %s", ep.Slug), Level: LevelVerbose})
	}

	info, err := m.deps.Streams.StreamingInfo(ctx, ep.Slug)
	if err != nil {
		fail("streaming info", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping video and subtitles of %s", ep.Slug), Level: LevelWarning})
		return errors.Join(errs...)
	}

	if err := m.deps.Fetcher.Video(ctx, info.Manifest, t.VideoPath()); err != nil {
		fail("video", err)
	}

	for _, sub := range info.Subtitles {
		if err := m.deps.Fetcher.Subtitle(ctx, sub.URL, t.SubtitlePath(sub)); err != nil {
			fail("subtitle "+sub.LanguageCode, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Manager) writePlaylist(ctx context.Context, channelDir string, channel model.ChannelDetails, targets []*model.DownloadTarget) {
	if m.playlist == nil || len(targets) == 0 {
		return
	}
	path, err := m.playlist.Write(ctx, channelDir, channel, targets)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelVerbose})
}

// reportView emits the lists a prompt would show.
func (m *Manager) reportView(view model.ChannelView) {
	sections := []struct {
		name     string
		episodes []*model.Episode
	}{
		{"ALL", view.All},
		{"INCLUDED", view.Included},
		{"EXCLUDED", view.Excluded},
	}
	for _, s := range sections {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s episodes of %s:", s.name, view.Channel.Slug), Level: LevelInfo})
		for i, ep := range s.episodes {
			m.progress(ProgressEvent{Message: ep.DisplayLine(i), Level: LevelInfo})
		}
	}
	m.progress(ProgressEvent{Message: "Dry run: nothing downloaded", Level: LevelInfo})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
