// Package config provides configuration management for nebula-downloader.
//
// This package handles:
//   - Loading settings from a YAML file
//   - Overriding any value from NEBULA_* environment variables
//   - Default configuration values
//   - Validation and conversion to the filter model
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Videos/Nebula
//	// Nebula First, Plus and Originals included, regular videos excluded
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // malformed file or environment
//	}
//	if err := settings.Validate(); err != nil {
//	    // missing token or download path
//	}
//
// # Environment
//
// Every option can be set from the environment, e.g.
//
//	NEBULA_USER_API_TOKEN=...
//	NEBULA_CHANNELS_TO_PARSE=channel-one,channel-two
//	NEBULA_DOWNLOAD_PATH=/srv/nebula
package config
