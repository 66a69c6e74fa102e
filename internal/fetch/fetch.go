package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/handiism/nebula-downloader/internal/http"
	ioutils "github.com/handiism/nebula-downloader/internal/io"
)

// Options configures a Fetcher.
type Options struct {
	// YtDlpPath is the yt-dlp executable. Empty means "yt-dlp" from PATH.
	YtDlpPath string

	// UserAgent is passed to yt-dlp so manifest and segment requests carry
	// the same User-Agent as API calls.
	UserAgent string

	// ThumbnailMaxSize bounds the longest thumbnail side. 0 keeps the original size.
	ThumbnailMaxSize int
}

// Fetcher downloads episode assets.
type Fetcher struct {
	http   *http.Client
	images *ioutils.ImageService
	ytdlp  *YtDlp
	opts   Options
	logger zerolog.Logger
}

// New creates a Fetcher that uses client for thumbnails and subtitles.
func New(client *http.Client, opts Options, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		http:   client,
		images: ioutils.NewImageService(),
		ytdlp:  NewYtDlp(opts.YtDlpPath, opts.UserAgent),
		opts:   opts,
		logger: logger,
	}
}

// Thumbnail downloads the image at url and writes it to dest as JPEG.
//
// Images that cannot be decoded are written as received.
func (f *Fetcher) Thumbnail(ctx context.Context, url, dest string) error {
	data, err := f.http.DownloadBytes(ctx, url)
	if err != nil {
		return fmt.Errorf("download thumbnail: %w", err)
	}

	jpg, err := f.images.NormalizeThumbnail(ctx, data, f.opts.ThumbnailMaxSize)
	if err != nil {
		f.logger.Debug().Err(err).Str("url", url).Msg("thumbnail kept as received")
		jpg = data
	}

	if err := ioutils.WriteFile(ctx, dest, jpg); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}

	f.logger.Debug().Str("path", dest).Int("bytes", len(jpg)).Msg("thumbnail written")
	return nil
}

// Video downloads the stream described by the HLS manifest to dest.
func (f *Fetcher) Video(ctx context.Context, manifest, dest string) error {
	if err := f.ytdlp.Download(ctx, manifest, dest); err != nil {
		return fmt.Errorf("download video: %w", err)
	}
	f.logger.Debug().Str("path", dest).Msg("video written")
	return nil
}

// Subtitle downloads the subtitle at url to dest.
func (f *Fetcher) Subtitle(ctx context.Context, url, dest string) error {
	if err := f.http.DownloadFile(ctx, url, dest, nil); err != nil {
		return fmt.Errorf("download subtitle: %w", err)
	}
	f.logger.Debug().Str("path", dest).Msg("subtitle written")
	return nil
}
