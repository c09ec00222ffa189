package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout sorts correctly both lexicographically and temporally and
// avoids colons, which are unsafe in some filesystem contexts.
const TimestampLayout = "2006-01-02_15.04.05"

// Entry is one directory entry with its modification time.
type Entry struct {
	Name    string
	ModTime time.Time
}

// ListFunc lists the plain files of a directory. Injected so the pure
// newest-matching logic can be tested without disk I/O.
type ListFunc func(dir string) ([]Entry, error)

// ReadDir is the disk-backed ListFunc.
func ReadDir(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}
		entries = append(entries, Entry{Name: de.Name(), ModTime: info.ModTime()})
	}
	return entries, nil
}

// Scheme generates and parses the timestamped artifact and marker names
// under one backup directory.
type Scheme struct {
	BackupDir string
	List      ListFunc
}

func NewScheme(backupDir string) Scheme {
	return Scheme{BackupDir: backupDir, List: ReadDir}
}

// Timestamp formats t with second resolution. Two backups of the same
// database within one second produce colliding names; callers must not
// back up the same database twice within one resolution unit.
func (s Scheme) Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func (s Scheme) ArtifactName(db, ts string) string {
	return fmt.Sprintf("%s-%s.sql.gz", db, ts)
}

func (s Scheme) MarkerName(db, ts string) string {
	return fmt.Sprintf("%s-binlog-%s.txt", db, ts)
}

func (s Scheme) ArtifactPath(db, ts string) string {
	return filepath.Join(s.BackupDir, s.ArtifactName(db, ts))
}

func (s Scheme) MarkerPath(db, ts string) string {
	return filepath.Join(s.BackupDir, s.MarkerName(db, ts))
}

// IsArtifact reports whether name is a full-backup artifact of db.
func IsArtifact(db, name string) bool {
	return strings.HasPrefix(name, db+"-") &&
		strings.HasSuffix(name, ".sql.gz") &&
		!strings.HasPrefix(name, db+"-binlog-")
}

// IsMarker reports whether name is a binlog marker of db.
func IsMarker(db, name string) bool {
	return strings.HasPrefix(name, db+"-binlog-") && strings.HasSuffix(name, ".txt")
}

// NewestArtifact returns the path and modification time of the db artifact
// with the maximum modification time. ok is false when none exists.
func (s Scheme) NewestArtifact(db string) (path string, modTime time.Time, ok bool, err error) {
	return s.newestMatching(func(name string) bool { return IsArtifact(db, name) })
}

// NewestMarker returns the newest binlog marker of db by modification time.
func (s Scheme) NewestMarker(db string) (path string, modTime time.Time, ok bool, err error) {
	return s.newestMatching(func(name string) bool { return IsMarker(db, name) })
}

func (s Scheme) newestMatching(match func(name string) bool) (string, time.Time, bool, error) {
	entries, err := s.List(s.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, fmt.Errorf("list %s: %w", s.BackupDir, err)
	}

	var newest Entry
	found := false
	for _, e := range entries {
		if !match(e.Name) {
			continue
		}
		if !found || e.ModTime.After(newest.ModTime) {
			newest = e
			found = true
		}
	}
	if !found {
		return "", time.Time{}, false, nil
	}
	return filepath.Join(s.BackupDir, newest.Name), newest.ModTime, true, nil
}
