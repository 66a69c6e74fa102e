package ioutils

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteFile writes data to a file, creating it if necessary.
//
// The data is written to a temporary sibling first and renamed into place,
// so a failed write never leaves a truncated file behind.
//
// Example:
//
//	err := WriteFile(ctx, "/videos/my-channel/channel.json", data)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteJSON writes v as indented JSON to path via WriteFile.
func WriteJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(ctx, path, append(data, '\n'))
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/videos/my-channel/my-episode")
//	// Creates /videos, /videos/my-channel and /videos/my-channel/my-episode if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
