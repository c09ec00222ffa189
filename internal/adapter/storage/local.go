package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalMirror copies finished artifacts into a second directory, typically a
// mounted remote filesystem.
type LocalMirror struct {
	basePath string
}

func NewLocalMirror(basePath string) (*LocalMirror, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}
	return &LocalMirror{basePath: basePath}, nil
}

func (l *LocalMirror) Upload(ctx context.Context, localPath string, remoteName string) error {
	source, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	destPath := filepath.Join(l.basePath, remoteName)
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create dest: %w", err)
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to copy: %w", err)
	}
	return dest.Close()
}
