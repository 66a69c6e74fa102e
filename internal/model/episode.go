package model

import (
	"fmt"
	"time"
)

// Facets holds the independent classification flags the catalog attaches to
// an episode.
//
// A facet is not an exclusive tier: an episode can be both a Nebula First
// release and a Nebula Original at the same time. An episode with no facet
// set at all is "unclassified".
type Facets struct {
	// First marks early-access (Nebula First) releases.
	First bool `json:"first"`

	// Plus marks Nebula Plus exclusive content.
	Plus bool `json:"plus"`

	// Original marks Nebula Originals.
	Original bool `json:"original"`

	// Regular marks ordinary uploads with no premium classification.
	Regular bool `json:"regular"`
}

// None reports whether no recognized facet is set.
func (f Facets) None() bool {
	return !f.First && !f.Plus && !f.Original && !f.Regular
}

// String returns a compact description like "first+original".
func (f Facets) String() string {
	var s string
	add := func(set bool, name string) {
		if !set {
			return
		}
		if s != "" {
			s += "+"
		}
		s += name
	}
	add(f.First, "first")
	add(f.Plus, "plus")
	add(f.Original, "original")
	add(f.Regular, "regular")
	if s == "" {
		return "unclassified"
	}
	return s
}

// Episode represents a single video published by a channel.
//
// Episode carries what is needed to select and download the video:
//   - Slug identifies the episode within its channel and names its directory
//   - Title is shown to the operator (empty string when the catalog has none)
//   - ThumbnailURL is fetched to thumbnail.jpg
//   - Facets drives the include/exclude filter
//
// The remaining fields are descriptive and only persisted as metadata.
type Episode struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Slug is the URL-safe unique identifier within the channel.
	Slug string `json:"slug"`

	// Title is the episode title. Empty string when the catalog omits it.
	Title string `json:"title"`

	// Description is the long-form episode description.
	Description string `json:"description,omitempty"`

	// ChannelSlug is the slug of the owning channel.
	ChannelSlug string `json:"channel_slug"`

	// ChannelTitle is the display title of the owning channel.
	ChannelTitle string `json:"channel_title,omitempty"`

	// PublishedAt is when the episode was published. Zero if unknown.
	PublishedAt time.Time `json:"published_at,omitempty"`

	// Duration is the video length in seconds.
	Duration int `json:"duration"`

	// ShareURL is the public page of the episode.
	ShareURL string `json:"share_url,omitempty"`

	// ThumbnailURL is the URL of the episode thumbnail image.
	ThumbnailURL string `json:"thumbnail_url"`

	// Facets are the classification flags used by the filter.
	Facets Facets `json:"facets"`
}

// HasThumbnail returns true if the episode has a thumbnail to download.
func (e *Episode) HasThumbnail() bool {
	return e.ThumbnailURL != ""
}

// DisplayLine renders the episode as an operator-facing list entry.
//
// index is 0-based; the rendered number is 1-based:
//
//	e.DisplayLine(0) // "1: my-episode - My Episode"
func (e *Episode) DisplayLine(index int) string {
	return fmt.Sprintf("%d: %s - %s", index+1, e.Slug, e.Title)
}
