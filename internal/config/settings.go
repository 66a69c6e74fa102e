package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/handiism/nebula-downloader/internal/model"
)

// Validation errors.
var (
	// ErrMissingCredentials is returned when neither a user token nor an
	// authorization header is configured.
	ErrMissingCredentials = errors.New("api.user_token or api.authorization_header is required")

	// ErrMissingDownloadPath is returned when no download root is configured.
	ErrMissingDownloadPath = errors.New("downloader.download_path is required")

	// ErrInvalidPlaylistFormat is returned for an unknown playlist format.
	ErrInvalidPlaylistFormat = errors.New("downloader.playlist_format must be m3u or pls")
)

// Settings holds all configuration options.
type Settings struct {
	API        APISettings        `yaml:"api"`
	Filters    FilterSettings     `yaml:"filters"`
	Downloader DownloaderSettings `yaml:"downloader"`
}

// APISettings holds Nebula API access configuration.
type APISettings struct {
	UserToken           string        `yaml:"user_token" envconfig:"NEBULA_USER_API_TOKEN"`
	AuthorizationHeader string        `yaml:"authorization_header" envconfig:"NEBULA_AUTHORIZATION_HEADER"`
	UserAgent           string        `yaml:"user_agent" envconfig:"NEBULA_USER_AGENT"`
	UsersBaseURL        string        `yaml:"users_base_url" envconfig:"NEBULA_USERS_BASE_URL"`
	ContentBaseURL      string        `yaml:"content_base_url" envconfig:"NEBULA_CONTENT_BASE_URL"`
	Timeout             time.Duration `yaml:"timeout" envconfig:"NEBULA_API_TIMEOUT"`
}

// FilterSettings holds episode filter and channel selection configuration.
type FilterSettings struct {
	CategorySearch         string   `yaml:"category_search" envconfig:"NEBULA_CATEGORY_SEARCH"`
	IncludeNebulaFirst     bool     `yaml:"include_nebula_first" envconfig:"NEBULA_INCLUDE_NEBULA_FIRST"`
	IncludeNebulaPlus      bool     `yaml:"include_nebula_plus" envconfig:"NEBULA_INCLUDE_NEBULA_PLUS"`
	IncludeNebulaOriginals bool     `yaml:"include_nebula_originals" envconfig:"NEBULA_INCLUDE_NEBULA_ORIGINALS"`
	IncludeRegularVideos   bool     `yaml:"include_regular_videos" envconfig:"NEBULA_INCLUDE_REGULAR_VIDEOS"`
	ChannelsToParse        []string `yaml:"channels_to_parse" envconfig:"NEBULA_CHANNELS_TO_PARSE"`

	// DiscoveryPages caps how many feed pages are read during channel discovery.
	DiscoveryPages int `yaml:"discovery_pages" envconfig:"NEBULA_DISCOVERY_PAGES"`
}

// DownloaderSettings holds download configuration.
type DownloaderSettings struct {
	DownloadPath string `yaml:"download_path" envconfig:"NEBULA_DOWNLOAD_PATH"`

	// YtDlpPath is the yt-dlp executable used to fetch HLS video.
	YtDlpPath string `yaml:"ytdlp_path" envconfig:"NEBULA_YTDLP_PATH"`

	// ThumbnailMaxSize bounds the thumbnail's longest side. 0 keeps the original size.
	ThumbnailMaxSize int `yaml:"thumbnail_max_size" envconfig:"NEBULA_THUMBNAIL_MAX_SIZE"`

	CreatePlaylist bool   `yaml:"create_playlist" envconfig:"NEBULA_CREATE_PLAYLIST"`
	PlaylistFormat string `yaml:"playlist_format" envconfig:"NEBULA_PLAYLIST_FORMAT"` // m3u, pls
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		API: APISettings{
			UserAgent:      "NebulaDownloader",
			UsersBaseURL:   "https://users.api.nebula.app",
			ContentBaseURL: "https://content.api.nebula.app",
			Timeout:        60 * time.Second,
		},
		Filters: FilterSettings{
			IncludeNebulaFirst:     true,
			IncludeNebulaPlus:      true,
			IncludeNebulaOriginals: true,
			IncludeRegularVideos:   false,
			DiscoveryPages:         1,
		},
		Downloader: DownloaderSettings{
			DownloadPath:   filepath.Join(homeDir, "Videos", "Nebula"),
			YtDlpPath:      "yt-dlp",
			PlaylistFormat: "m3u",
		},
	}
}

// Load reads settings from a YAML file and applies environment overrides.
//
// A missing file is not an error: defaults plus environment are used.
// Environment variables override file values.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := settings.applyEnv(); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	settings.normalize()
	return settings, nil
}

// applyEnv overlays NEBULA_* environment variables onto s.
//
// The envconfig tags carry the full prefixed name and Process runs without a
// prefix, so only NEBULA_* names are looked up and a bare DOWNLOAD_PATH or
// USER_AGENT is ignored.
func (s *Settings) applyEnv() error {
	if err := envconfig.Process("", &s.API); err != nil {
		return err
	}
	if err := envconfig.Process("", &s.Filters); err != nil {
		return err
	}
	return envconfig.Process("", &s.Downloader)
}

// normalize drops blank allow-list entries and trims string fields.
func (s *Settings) normalize() {
	channels := make([]string, 0, len(s.Filters.ChannelsToParse))
	for _, c := range s.Filters.ChannelsToParse {
		if c = strings.TrimSpace(c); c != "" {
			channels = append(channels, c)
		}
	}
	if len(channels) == 0 {
		channels = nil
	}
	s.Filters.ChannelsToParse = channels

	s.API.AuthorizationHeader = strings.TrimSpace(s.API.AuthorizationHeader)
	s.API.UserToken = strings.TrimSpace(s.API.UserToken)
	s.Downloader.PlaylistFormat = strings.ToLower(strings.TrimSpace(s.Downloader.PlaylistFormat))
	if s.Filters.DiscoveryPages < 1 {
		s.Filters.DiscoveryPages = 1
	}
}

// Validate checks that required configuration values are set.
func (s *Settings) Validate() error {
	if s.API.UserToken == "" && s.API.AuthorizationHeader == "" {
		return ErrMissingCredentials
	}
	if strings.TrimSpace(s.Downloader.DownloadPath) == "" {
		return ErrMissingDownloadPath
	}
	switch s.Downloader.PlaylistFormat {
	case "", "m3u", "pls":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPlaylistFormat, s.Downloader.PlaylistFormat)
	}
	return nil
}

// SetChannels replaces the channel allow-list, dropping blank entries.
func (s *Settings) SetChannels(channels []string) {
	s.Filters.ChannelsToParse = channels
	s.normalize()
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ToFilterSettings converts settings to the filter model.
func (s *Settings) ToFilterSettings() model.FilterSettings {
	return model.FilterSettings{
		IncludeFirst:     s.Filters.IncludeNebulaFirst,
		IncludePlus:      s.Filters.IncludeNebulaPlus,
		IncludeOriginals: s.Filters.IncludeNebulaOriginals,
		IncludeRegular:   s.Filters.IncludeRegularVideos,
		CategorySearch:   s.Filters.CategorySearch,
		Channels:         append([]string(nil), s.Filters.ChannelsToParse...),
	}
}
