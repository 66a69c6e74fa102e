package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ChannelDetails is the descriptive record of a channel as returned by the
// catalog. It is persisted verbatim as channel metadata.
type ChannelDetails struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	ShareURL    string `json:"share_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	BannerURL   string `json:"banner_url,omitempty"`
}

// ChannelContent is a channel's details together with its complete episode
// collection, in catalog order.
type ChannelContent struct {
	Details  ChannelDetails
	Episodes []*Episode
}

// FilterSettings controls which facets are included by the episode filter
// and which channels are processed.
type FilterSettings struct {
	// IncludeFirst includes Nebula First episodes.
	IncludeFirst bool

	// IncludePlus includes Nebula Plus episodes.
	IncludePlus bool

	// IncludeOriginals includes Nebula Originals.
	IncludeOriginals bool

	// IncludeRegular includes regular, non-premium episodes.
	IncludeRegular bool

	// CategorySearch restricts channel discovery to one category.
	// Empty means the whole feed.
	CategorySearch string

	// Channels is an explicit allow-list. When non-empty, channel discovery
	// is skipped and exactly these channels are processed.
	Channels []string
}

// DefaultFilterSettings returns the default facet toggles: every premium
// facet included, regular uploads excluded.
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{
		IncludeFirst:     true,
		IncludePlus:      true,
		IncludeOriginals: true,
		IncludeRegular:   false,
	}
}

// SelectionRequest holds the two raw lines typed by the operator for one
// channel. Each is resolved against its own list.
type SelectionRequest struct {
	// Excluded is the comma-separated 1-based index line for the excluded list.
	Excluded string

	// Included is the comma-separated 1-based index line for the included list.
	Included string
}

// ChannelView is what the operator sees for one channel before choosing:
// every episode, then the filter's included and excluded lists.
//
// Numbers typed by the operator are 1-based positions in Excluded and
// Included respectively. All is informational only.
type ChannelView struct {
	Channel  ChannelDetails
	All      []*Episode
	Included []*Episode
	Excluded []*Episode
}

// DownloadTarget is a fully resolved episode ready for asset fetching.
type DownloadTarget struct {
	ChannelSlug string
	Episode     *Episode

	// Dir is <download root>/<channel slug>/<episode slug>.
	Dir string
}

// NewDownloadTarget computes the target directory for an episode.
//
// The layout is deterministic:
//
//	NewDownloadTarget("/videos", "my-channel", ep).Dir
//	// "/videos/my-channel/<ep.Slug>"
func NewDownloadTarget(root, channelSlug string, episode *Episode) *DownloadTarget {
	return NewChannelTarget(ChannelDir(root, channelSlug), channelSlug, episode)
}

// NewChannelTarget places an episode inside an already resolved channel
// directory.
func NewChannelTarget(channelDir, channelSlug string, episode *Episode) *DownloadTarget {
	return &DownloadTarget{
		ChannelSlug: channelSlug,
		Episode:     episode,
		Dir:         filepath.Join(channelDir, PathSegment(episode.Slug)),
	}
}

// ThumbnailPath is where the episode thumbnail is written.
func (t *DownloadTarget) ThumbnailPath() string {
	return filepath.Join(t.Dir, "thumbnail.jpg")
}

// VideoPath is where the episode video is written. The file is named after
// the episode slug.
func (t *DownloadTarget) VideoPath() string {
	return filepath.Join(t.Dir, PathSegment(t.Episode.Slug))
}

// SubtitlePath is where a subtitle is written inside the episode directory.
func (t *DownloadTarget) SubtitlePath(sub Subtitle) string {
	return filepath.Join(t.Dir, sub.FileName())
}

// ChannelDir is the channel root directory under the download root.
func ChannelDir(root, channelSlug string) string {
	return filepath.Join(root, PathSegment(channelSlug))
}

// PathSegment turns a catalog slug into a single path element that stays
// inside its parent directory. Separators and other invalid characters
// become underscores; a slug left empty, such as "." or "..", becomes "_".
//
//	PathSegment("../../escaped") // ".._.._escaped"
func PathSegment(slug string) string {
	if s := sanitizeFileName(slug); s != "" {
		return s
	}
	return "_"
}

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("en: US/CC") // Returns "en_ US_CC"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
