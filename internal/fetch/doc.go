// Package fetch retrieves the assets of a selected episode: its thumbnail,
// its video and its subtitles.
//
// # Fetcher
//
// Fetcher implements the three asset operations used by the download
// orchestrator:
//
//   - Thumbnail downloads the episode image, normalises it to JPEG and
//     writes it atomically
//   - Video hands the HLS manifest to an external yt-dlp process that
//     writes the episode video to the destination path
//   - Subtitle streams a subtitle file straight to disk
//
// # Basic Usage
//
//	client := http.NewClient("NebulaDownloader", time.Minute)
//	f := fetch.New(client, fetch.Options{
//	    YtDlpPath:        "yt-dlp",
//	    UserAgent:        "NebulaDownloader",
//	    ThumbnailMaxSize: 1280,
//	}, logger)
//
//	err := f.Thumbnail(ctx, ep.ThumbnailURL, target.ThumbnailPath())
//	err = f.Video(ctx, info.Manifest, target.VideoPath())
//
// # Video
//
// Video output is written to the exact destination path; no extension is
// appended. yt-dlp must be installed and reachable through Options.YtDlpPath.
// Its standard error is captured and the last non-empty line is included in
// the returned error when the process fails.
package fetch
