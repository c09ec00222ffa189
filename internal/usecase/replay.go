package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/semmidev/rewind/internal/binlog"
	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/naming"
)

// StopTimeLayout is the inclusive stop bound format accepted by the
// log-replay tool.
const StopTimeLayout = "2006-01-02 15:04:05"

// Replay brings a database forward by replaying archived binlog segments
// from the last recorded marker, optionally bounded by a stop time.
type Replay struct {
	server     domain.Server
	replayer   domain.Replayer
	scheme     naming.Scheme
	binlogBase string
	archiveDir string
	log        Logger
}

func NewReplay(server domain.Server, replayer domain.Replayer, scheme naming.Scheme, binlogBase, archiveDir string, log Logger) *Replay {
	return &Replay{
		server:     server,
		replayer:   replayer,
		scheme:     scheme,
		binlogBase: binlogBase,
		archiveDir: archiveDir,
		log:        log,
	}
}

// Execute replays segments for db. stopDatetime, when non-empty, must be in
// StopTimeLayout and bounds the replay inclusively.
//
// The flush makes "now" the upper edge of the archived window. The listing
// below reads only the archive directory, never the live log directory, so
// a rotation racing the flush can at most add a segment that is newer than
// the window and absent from the archive.
func (uc *Replay) Execute(ctx context.Context, db, stopDatetime string) error {
	if stopDatetime != "" {
		if _, err := time.Parse(StopTimeLayout, stopDatetime); err != nil {
			return &domain.StageError{Database: db, Stage: "flush",
				Err: fmt.Errorf("invalid stop time %q, want %s: %w", stopDatetime, StopTimeLayout, err)}
		}
	}

	if err := uc.server.FlushLogs(ctx); err != nil {
		return &domain.StageError{Database: db, Stage: "flush", Err: err}
	}

	markerPath, _, ok, err := uc.scheme.NewestMarker(db)
	if err != nil {
		return &domain.StageError{Database: db, Stage: "locate", Err: err}
	}
	if !ok {
		return &domain.StageError{Database: db, Stage: "locate",
			Err: &domain.NotFoundError{Database: db, What: "binlog marker"}}
	}

	resumeFile, err := binlog.ReadMarker(markerPath)
	if err != nil {
		return &domain.StageError{Database: db, Stage: "locate", Err: err}
	}
	resume, err := binlog.Sequence(resumeFile)
	if err != nil {
		return &domain.StageError{Database: db, Stage: "locate", Err: err}
	}
	uc.log.Infof("[%s] Resume point: %s (sequence %d)", db, resumeFile, resume)

	names, err := binlog.ArchivedFrom(uc.archiveDir, uc.binlogBase, resume)
	if err != nil {
		return &domain.StageError{Database: db, Stage: "order", Err: err}
	}
	if len(names) == 0 {
		uc.log.Infof("[%s] No archived segments at or past the resume point", db)
		return nil
	}

	segments := make([]string, len(names))
	for i, name := range names {
		segments[i] = filepath.Join(uc.archiveDir, name)
	}

	uc.log.Infof("[%s] Replaying %d segment(s): %s .. %s", db, len(names), names[0], names[len(names)-1])
	if err := uc.replayer.Replay(ctx, db, segments, stopDatetime); err != nil {
		return &domain.StageError{Database: db, Stage: "replay", Err: err}
	}

	uc.log.Infof("[%s] Replay completed", db)
	return nil
}
