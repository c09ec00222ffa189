package usecase

import (
	"os"
	"path/filepath"
	"time"

	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/naming"
)

// ChangeDetector decides whether a database needs a new full backup by
// comparing the data directory's modification time against the newest
// existing artifact. Known accuracy limit: engines that write rows without
// touching any file in the schema directory will not move its mtime; with
// file-per-table layouts the table files live in the directory, so ordinary
// writes are visible.
type ChangeDetector struct {
	Scheme  naming.Scheme
	DataDir string
	Now     func() time.Time
}

// ShouldBackup reports whether db changed since its newest artifact, or
// force is set, or no artifact exists yet. When the database is unchanged
// the newest artifact is touched to now — even under force — recording that
// currency was confirmed and resetting any retention clocks keyed on
// artifact age.
func (d ChangeDetector) ShouldBackup(db string, force bool) (bool, error) {
	dbDir := filepath.Join(d.DataDir, db)
	info, err := os.Stat(dbDir)
	if err != nil {
		return false, &domain.FilesystemError{Path: dbDir, Err: err}
	}
	dbTime := info.ModTime()

	newestPath, backupTime, ok, err := d.Scheme.NewestArtifact(db)
	if err != nil {
		return false, err
	}
	if !ok {
		// Never backed up: always changed.
		return true, nil
	}

	changed := dbTime.After(backupTime)
	if !changed {
		now := d.Now()
		if err := os.Chtimes(newestPath, now, now); err != nil {
			return false, &domain.FilesystemError{Path: newestPath, Err: err}
		}
	}
	return changed || force, nil
}
