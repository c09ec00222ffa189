package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/semmidev/rewind/internal/binlog"
	"github.com/semmidev/rewind/internal/config"
	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/engine"
	"github.com/semmidev/rewind/internal/naming"
)

// Backup drives one database's backup: change detection, engine-aware dump
// option selection, the dump/compress pipeline, and the binlog marker.
type Backup struct {
	server   domain.Server
	dumper   domain.Dumper
	comp     domain.Compressor
	tracker  *binlog.Tracker
	scheme   naming.Scheme
	detector ChangeDetector
	targets  []UploadTarget
	log      Logger
	now      func() time.Time
}

func NewBackup(
	server domain.Server,
	dumper domain.Dumper,
	comp domain.Compressor,
	tracker *binlog.Tracker,
	scheme naming.Scheme,
	detector ChangeDetector,
	targets []UploadTarget,
	log Logger,
) *Backup {
	return &Backup{
		server:   server,
		dumper:   dumper,
		comp:     comp,
		tracker:  tracker,
		scheme:   scheme,
		detector: detector,
		targets:  targets,
		log:      log,
		now:      time.Now,
	}
}

// Execute backs up one database. An unchanged database without force is a
// successful no-op that produces no artifact.
func (uc *Backup) Execute(ctx context.Context, db config.DatabaseConfig, force bool) error {
	start := uc.now()
	name := db.Name

	needed, err := uc.detector.ShouldBackup(name, force)
	if err != nil {
		return &domain.StageError{Database: name, Stage: "detect", Err: err}
	}
	if !needed {
		uc.log.Infof("[%s] Unchanged since last backup, skipping", name)
		return nil
	}

	opts, err := uc.resolveOptions(ctx, db)
	if err != nil {
		return &domain.StageError{Database: name, Stage: "classify", Err: err}
	}

	if err := os.MkdirAll(uc.scheme.BackupDir, 0755); err != nil {
		return &domain.StageError{Database: name, Stage: "dump",
			Err: &domain.FilesystemError{Path: uc.scheme.BackupDir, Err: err}}
	}

	ts := uc.scheme.Timestamp(start)
	artifact := uc.scheme.ArtifactPath(name, ts)

	uc.log.Infof("[%s] Dumping to %s", name, artifact)
	if err := uc.dumpCompressed(ctx, name, opts, artifact); err != nil {
		return &domain.StageError{Database: name, Stage: "dump", Err: err}
	}

	active, err := uc.tracker.RecordMarker(ctx, name, ts)
	if err != nil {
		return &domain.StageError{Database: name, Stage: "mark", Err: err}
	}
	uc.log.Infof("[%s] Recorded binlog marker: %s", name, active)

	if info, err := os.Stat(artifact); err == nil {
		uc.log.Infof("[%s] Backup completed in %s, size: %.2f MB",
			name, uc.now().Sub(start).Round(time.Second),
			float64(info.Size())/(1024*1024))
	}

	uploadToTargets(ctx, uc.targets, uc.log, name, artifact, uc.scheme.ArtifactName(name, ts))
	uploadToTargets(ctx, uc.targets, uc.log, name, uc.scheme.MarkerPath(name, ts), uc.scheme.MarkerName(name, ts))

	return nil
}

// resolveOptions picks the dump option set: an explicit override wins,
// otherwise the engine classification decides between the non-locking
// transactional set and the locking one.
func (uc *Backup) resolveOptions(ctx context.Context, db config.DatabaseConfig) (domain.DumpOptions, error) {
	if len(db.DumpOptions) > 0 {
		return domain.DumpOptions{Override: db.DumpOptions}, nil
	}

	class, err := engine.Classify(ctx, uc.server, db.Name)
	if err != nil {
		return domain.DumpOptions{}, err
	}
	uc.log.Infof("[%s] Engine class: %s", db.Name, class)

	opts := domain.DumpOptions{
		AddDropTable:   true,
		ExtendedInsert: true,
		FlushLogs:      true,
		Quick:          true,
	}
	if class == domain.EngineAllInnoDB {
		opts.SingleTransaction = true
		opts.SkipLockTables = true
	} else {
		opts.LockAllTables = true
		opts.DisableKeys = true
	}
	return opts, nil
}

// dumpCompressed streams the dump through the parallel compressor into a
// temporary name and renames on success, so a failed run never leaves a
// truncated file under the artifact name.
func (uc *Backup) dumpCompressed(ctx context.Context, db string, opts domain.DumpOptions, artifact string) error {
	tmp := artifact + ".partial"

	out, err := os.Create(tmp)
	if err != nil {
		return &domain.FilesystemError{Path: tmp, Err: err}
	}

	zw, err := uc.comp.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}

	dumpErr := uc.dumper.Dump(ctx, db, opts, zw)
	closeErr := zw.Close()
	if err := out.Close(); closeErr == nil {
		closeErr = err
	}

	if dumpErr != nil {
		os.Remove(tmp)
		return dumpErr
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize compressed stream: %w", closeErr)
	}

	if err := os.Rename(tmp, artifact); err != nil {
		os.Remove(tmp)
		return &domain.FilesystemError{Path: artifact, Err: err}
	}
	return nil
}
