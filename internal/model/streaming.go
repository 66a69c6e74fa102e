package model

import (
	"net/url"
	"path"
	"strings"
)

// StreamingInfo is the result of resolving an episode's stream: the HLS
// manifest and the subtitle tracks, in catalog order.
type StreamingInfo struct {
	Manifest  string
	Subtitles []Subtitle
}

// Subtitle is one subtitle resource of an episode.
type Subtitle struct {
	// LanguageCode is the subtitle language, e.g. "en".
	LanguageCode string

	// URL is where the subtitle file is served from.
	URL string
}

// FileName returns the local file name for the subtitle: the language code
// plus the extension taken from the URL path, ".vtt" when the URL has none.
//
//	Subtitle{LanguageCode: "en", URL: "https://x/subs/en.srt?sig=1"}.FileName() // "en.srt"
func (s Subtitle) FileName() string {
	ext := ".vtt"
	if u, err := url.Parse(s.URL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = strings.ToLower(e)
		}
	}

	name := sanitizeFileName(s.LanguageCode)
	if name == "" {
		name = "subtitle"
	}
	return name + ext
}
