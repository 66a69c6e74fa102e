package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// yt-dlp flags.
const (
	flagOutput          = "--output"
	flagUserAgent       = "--user-agent"
	flagNoPart          = "--no-part"
	flagForceOverwrites = "--force-overwrites"
	flagNoProgress      = "--no-progress"
	flagQuiet           = "--quiet"
	flagNoWarnings      = "--no-warnings"
	flagNoPlaylist      = "--no-playlist"
)

// YtDlp runs the yt-dlp executable.
type YtDlp struct {
	path      string
	userAgent string
}

// NewYtDlp creates a runner for the executable at path.
func NewYtDlp(path, userAgent string) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{path: path, userAgent: userAgent}
}

// Download fetches manifest into dest. The process is killed when ctx is
// cancelled.
func (y *YtDlp) Download(ctx context.Context, manifest, dest string) error {
	cmd := exec.CommandContext(ctx, y.path, y.args(manifest, dest)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", y.path, err, msg)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with code %d", y.path, exitErr.ExitCode())
		}
		return fmt.Errorf("%s: %w", y.path, err)
	}
	return nil
}

// args builds the yt-dlp argument list. dest is escaped so it is never
// read as an output template. The manifest URL is always last.
func (y *YtDlp) args(manifest, dest string) []string {
	args := make([]string, 0, 12)

	args = append(args,
		flagOutput, strings.ReplaceAll(dest, "%", "%%"),
		flagNoPart,
		flagForceOverwrites,
		flagNoPlaylist,
		flagNoProgress,
		flagQuiet,
		flagNoWarnings)

	if y.userAgent != "" {
		args = append(args, flagUserAgent, y.userAgent)
	}

	return append(args, manifest)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
