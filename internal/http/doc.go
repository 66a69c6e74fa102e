// Package http provides an HTTP client configured for Nebula API requests
// and asset downloads.
//
// The Client in this package handles:
//   - User-Agent headers on every request
//   - Authorization headers for API calls
//   - JSON request/response bodies
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient("NebulaDownloader", time.Minute)
//
//	// Fetch an API resource
//	var page dto.JSONEpisodePage
//	err := client.GetJSON(ctx, url, authHeader, &page)
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, subtitleURL, "/path/to/en.vtt", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// Non-200 responses are returned as *StatusError.
package http
