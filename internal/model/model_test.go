package model

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"pt:br", "pt_br"},
		{"en<cc>", "en_cc_"},
		{"en/US\\x", "en_US_x"},
		{"a|b", "a_b"},
		{"what?*", "what__"},
		{"\"quoted\"", "_quoted_"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDownloadTarget_Paths(t *testing.T) {
	ep := &Episode{Slug: "the-episode", Title: "The Episode"}
	target := NewDownloadTarget("/videos", "my-channel", ep)

	want := filepath.Join("/videos", "my-channel", "the-episode")
	if target.Dir != want {
		t.Errorf("Dir = %q, want %q", target.Dir, want)
	}
	if got := target.ThumbnailPath(); got != filepath.Join(want, "thumbnail.jpg") {
		t.Errorf("ThumbnailPath() = %q", got)
	}
	if got := target.VideoPath(); got != filepath.Join(want, "the-episode") {
		t.Errorf("VideoPath() = %q", got)
	}
	if target.ChannelSlug != "my-channel" {
		t.Errorf("ChannelSlug = %q, want %q", target.ChannelSlug, "my-channel")
	}
}

func TestPathSegment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my-episode", "my-episode"},
		{"../../escaped", ".._.._escaped"},
		{"..", "_"},
		{".", "_"},
		{"", "_"},
		{"a/b", "a_b"},
		{`..\up`, ".._up"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := PathSegment(tt.input); got != tt.want {
				t.Errorf("PathSegment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDownloadTarget_StaysUnderRoot(t *testing.T) {
	root := "/videos"
	tests := []struct {
		channel string
		episode string
	}{
		{"my-channel", "../../escaped"},
		{"..", "ep"},
		{"../other", ".."},
		{"my-channel", "/etc/passwd"},
	}

	for _, tt := range tests {
		target := NewDownloadTarget(root, tt.channel, &Episode{Slug: tt.episode})
		for _, p := range []string{target.Dir, target.ThumbnailPath(), target.VideoPath()} {
			rel, err := filepath.Rel(root, p)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				t.Errorf("%s/%s: path %q escapes %q", tt.channel, tt.episode, p, root)
			}
			if depth := len(strings.Split(filepath.ToSlash(rel), "/")); depth < 2 {
				t.Errorf("%s/%s: path %q is not inside an episode directory", tt.channel, tt.episode, p)
			}
		}
	}
}

func TestNewChannelTarget(t *testing.T) {
	target := NewChannelTarget("/data/chan", "my-channel", &Episode{Slug: "ep"})
	if want := filepath.Join("/data/chan", "ep"); target.Dir != want {
		t.Errorf("Dir = %q, want %q", target.Dir, want)
	}
}

func TestSubtitle_FileName(t *testing.T) {
	tests := []struct {
		name string
		sub  Subtitle
		want string
	}{
		{"vtt from url", Subtitle{LanguageCode: "en", URL: "https://cdn.example.com/subs/abc.vtt"}, "en.vtt"},
		{"query ignored", Subtitle{LanguageCode: "de", URL: "https://cdn.example.com/subs/abc.SRT?sig=1"}, "de.srt"},
		{"no extension", Subtitle{LanguageCode: "fr", URL: "https://cdn.example.com/subs/abc"}, "fr.vtt"},
		{"empty language", Subtitle{URL: "https://cdn.example.com/x.vtt"}, "subtitle.vtt"},
		{"unsafe language", Subtitle{LanguageCode: "en/US", URL: "https://cdn.example.com/x.vtt"}, "en_US.vtt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.FileName(); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFacets(t *testing.T) {
	if !(Facets{}).None() {
		t.Error("zero Facets should report None()")
	}
	if (Facets{Regular: true}).None() {
		t.Error("Facets with Regular set should not report None()")
	}

	tests := []struct {
		facets Facets
		want   string
	}{
		{Facets{}, "unclassified"},
		{Facets{First: true}, "first"},
		{Facets{First: true, Original: true}, "first+original"},
		{Facets{Plus: true, Regular: true}, "plus+regular"},
	}
	for _, tt := range tests {
		if got := tt.facets.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEpisode_DisplayLine(t *testing.T) {
	ep := &Episode{Slug: "ep-one", Title: "Episode One"}
	if got := ep.DisplayLine(0); got != "1: ep-one - Episode One" {
		t.Errorf("DisplayLine(0) = %q", got)
	}

	untitled := &Episode{Slug: "ep-two"}
	if got := untitled.DisplayLine(4); got != "5: ep-two - " {
		t.Errorf("DisplayLine(4) = %q", got)
	}
}

func TestDefaultFilterSettings(t *testing.T) {
	fs := DefaultFilterSettings()
	if !fs.IncludeFirst || !fs.IncludePlus || !fs.IncludeOriginals {
		t.Error("premium facets should be included by default")
	}
	if fs.IncludeRegular {
		t.Error("regular facet should be excluded by default")
	}
}
