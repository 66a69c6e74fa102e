package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/handiism/nebula-downloader/internal/config"
	"github.com/handiism/nebula-downloader/internal/model"
)

type fakeCatalog struct {
	channels      map[string]*model.ChannelContent
	discovered    []string
	discoverCalls int
	contentCalls  []string
}

func (c *fakeCatalog) ChannelContent(ctx context.Context, slug string) (*model.ChannelContent, error) {
	c.contentCalls = append(c.contentCalls, slug)
	content, ok := c.channels[slug]
	if !ok {
		return nil, errors.New("no such channel")
	}
	return content, nil
}

func (c *fakeCatalog) ChannelSlugs(ctx context.Context, category string, maxPages int) ([]string, error) {
	c.discoverCalls++
	return c.discovered, nil
}

type fakeStreams struct {
	fail  map[string]bool
	calls []string
}

func (s *fakeStreams) StreamingInfo(ctx context.Context, slug string) (*model.StreamingInfo, error) {
	s.calls = append(s.calls, slug)
	if s.fail[slug] {
		return nil, errors.New("stream unavailable")
	}
	return &model.StreamingInfo{
		Manifest: "https://cdn/" + slug + ".m3u8",
		Subtitles: []model.Subtitle{
			{LanguageCode: "en", URL: "https://cdn/" + slug + "/en.vtt"},
			{LanguageCode: "de", URL: "https://cdn/" + slug + "/de.vtt"},
		},
	}, nil
}

// fakeFetcher records calls and writes the destination file so tests can
// inspect the tree. failOn matches "kind:url".
type fakeFetcher struct {
	calls  []string
	failOn map[string]bool
}

func (f *fakeFetcher) fetch(kind, url, dest string) error {
	key := kind + ":" + url
	f.calls = append(f.calls, key)
	if f.failOn[key] {
		return errors.New(kind + " failed")
	}
	return os.WriteFile(dest, []byte(url), 0644)
}

func (f *fakeFetcher) Thumbnail(ctx context.Context, url, dest string) error {
	return f.fetch("thumbnail", url, dest)
}

func (f *fakeFetcher) Video(ctx context.Context, manifest, dest string) error {
	return f.fetch("video", manifest, dest)
}

func (f *fakeFetcher) Subtitle(ctx context.Context, url, dest string) error {
	return f.fetch("subtitle", url, dest)
}

func (f *fakeFetcher) count(kind string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, kind+":") {
			n++
		}
	}
	return n
}

// fakePersister creates the channel directory. dir, when set, replaces the
// one derived from root.
type fakePersister struct {
	calls    int
	episodes []*model.Episode
	dir      string
	err      error
}

func (p *fakePersister) Persist(ctx context.Context, slug string, details model.ChannelDetails, episodes []*model.Episode, root string) (string, error) {
	p.calls++
	p.episodes = episodes
	if p.err != nil {
		return "", p.err
	}
	dir := p.dir
	if dir == "" {
		dir = model.ChannelDir(root, slug)
	}
	return dir, os.MkdirAll(dir, 0755)
}

type fakePrompter struct {
	answers map[string]model.SelectionRequest
	views   []model.ChannelView
	err     error
}

func (p *fakePrompter) Select(ctx context.Context, view model.ChannelView) (model.SelectionRequest, error) {
	p.views = append(p.views, view)
	if p.err != nil {
		return model.SelectionRequest{}, p.err
	}
	return p.answers[view.Channel.Slug], nil
}

type fixture struct {
	settings  *config.Settings
	catalog   *fakeCatalog
	streams   *fakeStreams
	fetcher   *fakeFetcher
	persister *fakePersister
	prompter  *fakePrompter
	events    []ProgressEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Downloader.DownloadPath = t.TempDir()
	settings.Filters.ChannelsToParse = []string{"my-channel"}

	return &fixture{
		settings: settings,
		catalog: &fakeCatalog{channels: map[string]*model.ChannelContent{
			"my-channel": myChannel(),
		}},
		streams:   &fakeStreams{fail: map[string]bool{}},
		fetcher:   &fakeFetcher{failOn: map[string]bool{}},
		persister: &fakePersister{},
		prompter:  &fakePrompter{answers: map[string]model.SelectionRequest{}},
	}
}

func (f *fixture) manager(opts Options) *Manager {
	return NewManager(f.settings, Deps{
		Catalog:  f.catalog,
		Streams:  f.streams,
		Fetcher:  f.fetcher,
		Metadata: f.persister,
		Prompter: f.prompter,
	}, opts, func(e ProgressEvent) {
		f.events = append(f.events, e)
	})
}

func (f *fixture) hasEvent(substr string) bool {
	for _, e := range f.events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// myChannel has ep0 (first), ep1 (plus) and ep2 (regular). With default
// settings ep0 and ep1 are included and ep2 is excluded.
func myChannel() *model.ChannelContent {
	return &model.ChannelContent{
		Details: model.ChannelDetails{Slug: "my-channel", Title: "My Channel"},
		Episodes: []*model.Episode{
			{Slug: "ep0", Title: "Zero", ThumbnailURL: "https://img/ep0.jpg", Facets: model.Facets{First: true}},
			{Slug: "ep1", Title: "One", ThumbnailURL: "https://img/ep1.jpg", Facets: model.Facets{Plus: true}},
			{Slug: "ep2", Title: "Two", ThumbnailURL: "https://img/ep2.jpg", Facets: model.Facets{Regular: true}},
		},
	}
}

func TestManager_DownloadsExcludedSelection(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1", Included: ""}

	m := f.manager(Options{})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(f.prompter.views) != 1 {
		t.Fatalf("prompted %d times, want 1", len(f.prompter.views))
	}
	view := f.prompter.views[0]
	if got := slugs(view.Included); !slices.Equal(got, []string{"ep0", "ep1"}) {
		t.Errorf("included = %v, want [ep0 ep1]", got)
	}
	if got := slugs(view.Excluded); !slices.Equal(got, []string{"ep2"}) {
		t.Errorf("excluded = %v, want [ep2]", got)
	}
	if len(view.All) != 3 {
		t.Errorf("all = %d episodes, want 3", len(view.All))
	}

	wantCalls := []string{
		"thumbnail:https://img/ep2.jpg",
		"video:https://cdn/ep2.m3u8",
		"subtitle:https://cdn/ep2/en.vtt",
		"subtitle:https://cdn/ep2/de.vtt",
	}
	if !slices.Equal(f.fetcher.calls, wantCalls) {
		t.Errorf("fetch calls =\n%v\nwant\n%v", f.fetcher.calls, wantCalls)
	}
	if !slices.Equal(f.streams.calls, []string{"ep2"}) {
		t.Errorf("streaming info calls = %v", f.streams.calls)
	}

	if f.persister.calls != 1 {
		t.Errorf("persister calls = %d, want 1", f.persister.calls)
	}
	if len(f.persister.episodes) != 3 {
		t.Errorf("persisted %d episodes, want the full collection of 3", len(f.persister.episodes))
	}

	epDir := filepath.Join(f.settings.Downloader.DownloadPath, "my-channel", "ep2")
	for _, name := range []string{"thumbnail.jpg", "ep2", "en.vtt", "de.vtt"} {
		if _, err := os.Stat(filepath.Join(epDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	for _, other := range []string{"ep0", "ep1"} {
		if _, err := os.Stat(filepath.Join(f.settings.Downloader.DownloadPath, "my-channel", other)); !os.IsNotExist(err) {
			t.Errorf("directory for %s should not exist", other)
		}
	}

	sum := m.Summary()
	if sum.ChannelsProcessed != 1 || sum.EpisodesDownloaded != 1 || sum.EpisodesFailed != 0 {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestManager_BlankSelectionSkipsChannel(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "   ", Included: ""}

	m := f.manager(Options{})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if f.persister.calls != 0 {
		t.Errorf("persister calls = %d, want 0", f.persister.calls)
	}
	if len(f.fetcher.calls) != 0 || len(f.streams.calls) != 0 {
		t.Errorf("unexpected fetches: %v %v", f.fetcher.calls, f.streams.calls)
	}
	entries, err := os.ReadDir(f.settings.Downloader.DownloadPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("download root should be untouched, found %d entries", len(entries))
	}
	if !f.hasEvent("No episodes selected for download.") {
		t.Error("expected skip message")
	}
	if m.Summary().ChannelsSkipped != 1 {
		t.Errorf("Summary() = %+v", m.Summary())
	}
}

func TestManager_MalformedLineDiscarded(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1,x", Included: "2,9"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !slices.Equal(f.streams.calls, []string{"ep1"}) {
		t.Errorf("streaming info calls = %v, want [ep1]", f.streams.calls)
	}
	var warnings int
	for _, e := range f.events {
		if e.Level == LevelWarning {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("warnings = %d, want 2 (one malformed line, one out of range)", warnings)
	}
}

func TestManager_OrderExcludedThenIncluded(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1", Included: "2,1"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := []string{"ep2", "ep1", "ep0"}; !slices.Equal(f.streams.calls, want) {
		t.Errorf("order = %v, want %v", f.streams.calls, want)
	}
}

func TestManager_StepsAreIndependent(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Included: "1"}
	f.fetcher.failOn["thumbnail:https://img/ep0.jpg"] = true
	f.fetcher.failOn["video:https://cdn/ep0.m3u8"] = true

	m := f.manager(Options{})
	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	if f.fetcher.count("subtitle") != 2 {
		t.Errorf("subtitles should still be fetched after thumbnail and video failures, calls = %v", f.fetcher.calls)
	}
	if !slices.Equal(f.streams.calls, []string{"ep0"}) {
		t.Errorf("streaming info should be resolved after thumbnail failure, calls = %v", f.streams.calls)
	}
	for _, want := range []string{"thumbnail", "video", "channel my-channel", "episode ep0"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
	if sum := m.Summary(); sum.EpisodesFailed != 1 || sum.ChannelsFailed != 1 {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestManager_StreamingFailureSkipsVideoAndSubtitles(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Included: "1"}
	f.streams.fail["ep0"] = true

	if err := f.manager(Options{}).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if f.fetcher.count("thumbnail") != 1 {
		t.Errorf("thumbnail should be fetched before streaming info, calls = %v", f.fetcher.calls)
	}
	if f.fetcher.count("video") != 0 || f.fetcher.count("subtitle") != 0 {
		t.Errorf("video and subtitles need streaming info, calls = %v", f.fetcher.calls)
	}
}

func TestManager_EpisodeFailureAbortsChannelOnly(t *testing.T) {
	f := newFixture(t)
	f.settings.Filters.ChannelsToParse = []string{"my-channel", "other"}
	f.catalog.channels["other"] = &model.ChannelContent{
		Details:  model.ChannelDetails{Slug: "other"},
		Episodes: []*model.Episode{{Slug: "o0", Facets: model.Facets{Original: true}}},
	}
	f.prompter.answers["my-channel"] = model.SelectionRequest{Included: "1,2"}
	f.prompter.answers["other"] = model.SelectionRequest{Included: "1"}
	f.fetcher.failOn["video:https://cdn/ep0.m3u8"] = true

	m := f.manager(Options{})
	err := m.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	if want := []string{"ep0", "o0"}; !slices.Equal(f.streams.calls, want) {
		t.Errorf("streaming info calls = %v, want %v (ep1 aborted, other channel continues)", f.streams.calls, want)
	}
	if f.persister.calls != 2 {
		t.Errorf("persister calls = %d, want 2", f.persister.calls)
	}
	sum := m.Summary()
	if sum.ChannelsFailed != 1 || sum.ChannelsProcessed != 1 || sum.EpisodesDownloaded != 1 {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestManager_DirectoryFailureEndsEpisode(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Included: "1"}

	// A file where the episode directory should go.
	chDir := filepath.Join(f.settings.Downloader.DownloadPath, "my-channel")
	if err := os.MkdirAll(chDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(chDir, "ep0"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := f.manager(Options{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "create episode directory") {
		t.Fatalf("error = %v, want directory failure", err)
	}
	if len(f.fetcher.calls) != 0 || len(f.streams.calls) != 0 {
		t.Errorf("no step should run after a directory failure: %v %v", f.fetcher.calls, f.streams.calls)
	}
}

func TestManager_PersistFailureAbortsChannel(t *testing.T) {
	f := newFixture(t)
	f.prompter.answers["my-channel"] = model.SelectionRequest{Included: "1"}
	f.persister.err = errors.New("disk full")

	err := f.manager(Options{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "persist metadata") {
		t.Fatalf("error = %v", err)
	}
	if len(f.streams.calls) != 0 {
		t.Error("no episode should be downloaded when metadata cannot be written")
	}
}

func TestManager_AllowListBypassesDiscovery(t *testing.T) {
	f := newFixture(t)
	f.catalog.discovered = []string{"discovered"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.catalog.discoverCalls != 0 {
		t.Errorf("discovery calls = %d, want 0", f.catalog.discoverCalls)
	}
	if !slices.Equal(f.catalog.contentCalls, []string{"my-channel"}) {
		t.Errorf("content calls = %v", f.catalog.contentCalls)
	}
}

func TestManager_DiscoveryWithoutAllowList(t *testing.T) {
	f := newFixture(t)
	f.settings.Filters.ChannelsToParse = nil
	f.catalog.discovered = []string{"my-channel"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.catalog.discoverCalls != 1 {
		t.Errorf("discovery calls = %d, want 1", f.catalog.discoverCalls)
	}
	if len(f.prompter.views) != 1 {
		t.Errorf("prompted %d times, want 1", len(f.prompter.views))
	}
}

func TestManager_ChannelFetchFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.settings.Filters.ChannelsToParse = []string{"missing", "my-channel"}

	err := f.manager(Options{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "channel missing") {
		t.Fatalf("error = %v", err)
	}
	if len(f.prompter.views) != 1 {
		t.Errorf("the second channel should still be prompted")
	}
}

func TestManager_PromptErrorStopsRun(t *testing.T) {
	f := newFixture(t)
	f.settings.Filters.ChannelsToParse = []string{"my-channel", "my-channel"}
	f.prompter.err = errors.New("stdin closed")

	err := f.manager(Options{}).Run(context.Background())
	if !errors.Is(err, ErrPrompt) {
		t.Fatalf("error = %v, want ErrPrompt", err)
	}
	if len(f.prompter.views) != 1 {
		t.Errorf("prompted %d times, want 1", len(f.prompter.views))
	}
}

func TestManager_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.manager(Options{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(f.catalog.contentCalls) != 0 {
		t.Error("no channel should be fetched after cancellation")
	}
}

func TestManager_DryRun(t *testing.T) {
	f := newFixture(t)

	m := f.manager(Options{DryRun: true})
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.prompter.views) != 0 || f.persister.calls != 0 || len(f.fetcher.calls) != 0 {
		t.Error("dry run must not prompt, persist or fetch")
	}
	for _, want := range []string{"ALL episodes of my-channel", "1: ep2 - Two", "Dry run"} {
		if !f.hasEvent(want) {
			t.Errorf("missing event %q", want)
		}
	}
}

func TestManager_Playlist(t *testing.T) {
	f := newFixture(t)
	f.settings.Downloader.CreatePlaylist = true
	f.settings.Downloader.PlaylistFormat = "m3u"
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1", Included: "1"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(f.settings.Downloader.DownloadPath, "my-channel", "my-channel.m3u"))
	if err != nil {
		t.Fatalf("playlist not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "ep2/ep2\n") || !strings.Contains(content, "ep0/ep0\n") {
		t.Errorf("playlist = %q", content)
	}
	if strings.Index(content, "ep2/ep2") > strings.Index(content, "ep0/ep0") {
		t.Error("playlist should follow download order")
	}
}

func TestManager_EpisodeSlugCannotLeaveChannelDir(t *testing.T) {
	f := newFixture(t)
	root := filepath.Join(t.TempDir(), "downloads")
	f.settings.Downloader.DownloadPath = root
	f.catalog.channels["my-channel"] = &model.ChannelContent{
		Details: model.ChannelDetails{Slug: "my-channel"},
		Episodes: []*model.Episode{
			{Slug: "../../escaped", ThumbnailURL: "https://img/x.jpg", Facets: model.Facets{Regular: true}},
		},
	}
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "escaped")); !os.IsNotExist(err) {
		t.Errorf("episode written outside the download root: %v", err)
	}
	epDir := filepath.Join(root, "my-channel", ".._.._escaped")
	for _, name := range []string{"thumbnail.jpg", ".._.._escaped", "en.vtt"} {
		if _, err := os.Stat(filepath.Join(epDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestManager_UsesPersistedChannelDir(t *testing.T) {
	f := newFixture(t)
	f.settings.Downloader.CreatePlaylist = true
	f.persister.dir = filepath.Join(t.TempDir(), "elsewhere")
	f.prompter.answers["my-channel"] = model.SelectionRequest{Excluded: "1"}

	if err := f.manager(Options{}).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, p := range []string{
		filepath.Join(f.persister.dir, "ep2", "thumbnail.jpg"),
		filepath.Join(f.persister.dir, "ep2", "ep2"),
		filepath.Join(f.persister.dir, "my-channel.m3u"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(f.settings.Downloader.DownloadPath, "my-channel", "ep2")); !os.IsNotExist(err) {
		t.Error("episode assets should follow the persisted channel directory")
	}
}

func slugs(eps []*model.Episode) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.Slug
	}
	return out
}
