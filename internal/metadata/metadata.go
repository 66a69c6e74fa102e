// Package metadata writes the channel-level metadata files: channel.json
// with the channel details and episodes.json with the complete, unfiltered
// episode collection.
package metadata

import (
	"context"
	"fmt"
	"path/filepath"

	ioutils "github.com/handiism/nebula-downloader/internal/io"
	"github.com/handiism/nebula-downloader/internal/model"
)

// File names inside a channel directory.
const (
	ChannelFile  = "channel.json"
	EpisodesFile = "episodes.json"
)

// Persister writes channel metadata under a download root.
type Persister struct{}

// NewPersister creates a Persister.
func NewPersister() *Persister {
	return &Persister{}
}

// Persist creates <root>/<channelSlug>/ and writes both metadata files into
// it, replacing earlier versions. It returns the channel directory.
//
// episodes is written as given, so callers pass every episode of the
// channel and not only the selected ones.
func (p *Persister) Persist(ctx context.Context, channelSlug string, details model.ChannelDetails, episodes []*model.Episode, root string) (string, error) {
	dir := model.ChannelDir(root, channelSlug)
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create channel directory: %w", err)
	}

	if err := ioutils.WriteJSON(ctx, filepath.Join(dir, ChannelFile), details); err != nil {
		return "", fmt.Errorf("write %s: %w", ChannelFile, err)
	}

	if episodes == nil {
		episodes = []*model.Episode{}
	}
	if err := ioutils.WriteJSON(ctx, filepath.Join(dir, EpisodesFile), episodes); err != nil {
		return "", fmt.Errorf("write %s: %w", EpisodesFile, err)
	}

	return dir, nil
}
