// Package model defines the core data structures used throughout
// the nebula-downloader application.
//
// # Episode
//
// Episode is one video of a channel with the facets the filter works on:
//
//	ep := &model.Episode{Slug: "my-episode", Title: "My Episode"}
//	fmt.Println(ep.DisplayLine(0)) // "1: my-episode - My Episode"
//
// # Download targets
//
// DownloadTarget computes where an episode's assets are written:
//
//	t := model.NewDownloadTarget("/videos", "my-channel", ep)
//	t.Dir           // /videos/my-channel/my-episode
//	t.ThumbnailPath() // /videos/my-channel/my-episode/thumbnail.jpg
//	t.VideoPath()     // /videos/my-channel/my-episode/my-episode
//
// Slugs pass through PathSegment, so a slug never names a parent directory.
//
// # Filter settings
//
// FilterSettings holds the facet toggles and the optional channel allow-list.
// DefaultFilterSettings includes every premium facet and excludes regular uploads.
package model
