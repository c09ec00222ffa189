package binlog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/naming"
)

// Tracker records, after each backup, which binlog file the server was
// writing to. That file is the first one not covered by the backup and is
// the resume point for the next incremental restore.
type Tracker struct {
	server domain.Server
	scheme naming.Scheme
}

func NewTracker(server domain.Server, scheme naming.Scheme) *Tracker {
	return &Tracker{server: server, scheme: scheme}
}

// RecordMarker persists the currently active binlog filename under the same
// timestamp as the backup artifact, so the two are correlatable.
func (t *Tracker) RecordMarker(ctx context.Context, db, ts string) (string, error) {
	active, err := t.server.ActiveBinlog(ctx)
	if err != nil {
		return "", fmt.Errorf("query active binlog: %w", err)
	}

	path := t.scheme.MarkerPath(db, ts)
	if err := os.WriteFile(path, []byte(active+"\n"), 0644); err != nil {
		return "", &domain.FilesystemError{Path: path, Err: err}
	}
	return active, nil
}

// ReadMarker returns the binlog filename recorded in a marker file.
func ReadMarker(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &domain.FilesystemError{Path: path, Err: err}
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("marker file %s is empty", path)
	}
	return fields[0], nil
}
