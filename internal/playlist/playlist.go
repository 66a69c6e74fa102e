// Package playlist generates channel playlists of downloaded episode videos.
package playlist

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/nebula-downloader/internal/io"
	"github.com/handiism/nebula-downloader/internal/model"
)

// Format represents supported playlist file formats.
//
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp and VLC
type Format int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U Format = iota

	// FormatPLS creates .pls files.
	// INI-style format with file, title, and length info.
	FormatPLS
)

// ParseFormat maps a settings value to a Format. Unknown values yield M3U.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// Creator generates playlist files for a channel.
//
// Entries are the episode videos downloaded during the run, addressed
// relative to the channel directory where the playlist is written:
//
//	creator := NewCreator(FormatM3U, true)
//	content := creator.Create(details, targets)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:1260,My Channel - Episode Title
//	// episode-slug/episode-slug
type Creator struct {
	format   Format
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewCreator creates a new Creator.
//
// extended only applies to M3U and adds the #EXTM3U header and an #EXTINF
// line per entry.
func NewCreator(format Format, extended bool) *Creator {
	return &Creator{format: format, extended: extended}
}

// FileName returns the playlist file name for a channel, e.g. "my-channel.m3u".
func (c *Creator) FileName(channelSlug string) string {
	return channelSlug + c.format.Extension()
}

// Create generates playlist content for the given targets, in order.
func (c *Creator) Create(channel model.ChannelDetails, targets []*model.DownloadTarget) string {
	switch c.format {
	case FormatPLS:
		return c.createPLS(targets)
	default:
		return c.createM3U(channel, targets)
	}
}

// Write generates the playlist and writes it into channelDir. It returns
// the playlist path.
func (c *Creator) Write(ctx context.Context, channelDir string, channel model.ChannelDetails, targets []*model.DownloadTarget) (string, error) {
	if len(targets) == 0 {
		return "", nil
	}
	dest := filepath.Join(channelDir, c.FileName(model.PathSegment(channel.Slug)))
	if err := ioutils.WriteFile(ctx, dest, []byte(c.Create(channel, targets))); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return dest, nil
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:1260,Channel - Title
//	episode-slug/episode-slug
func (c *Creator) createM3U(channel model.ChannelDetails, targets []*model.DownloadTarget) string {
	var sb strings.Builder

	if c.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, t := range targets {
		if c.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", extinfDuration(t.Episode), entryTitle(channel.Title, t.Episode)))
		}
		sb.WriteString(entryPath(t) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=episode-slug/episode-slug
//	Title1=Episode Title
//	Length1=1260
//	NumberOfEntries=1
//	Version=2
func (c *Creator) createPLS(targets []*model.DownloadTarget) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, t := range targets {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, entryPath(t)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, entryTitle("", t.Episode)))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, extinfDuration(t.Episode)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(targets)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// entryPath is the video path relative to the channel directory, always
// slash-separated.
func entryPath(t *model.DownloadTarget) string {
	seg := model.PathSegment(t.Episode.Slug)
	return path.Join(seg, seg)
}

func entryTitle(channelTitle string, ep *model.Episode) string {
	title := ep.Title
	if title == "" {
		title = ep.Slug
	}
	if channelTitle != "" {
		return channelTitle + " - " + title
	}
	return title
}

// extinfDuration returns the duration in seconds, -1 when unknown.
func extinfDuration(ep *model.Episode) int {
	if ep.Duration <= 0 {
		return -1
	}
	return ep.Duration
}
