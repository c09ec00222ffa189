package binlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/semmidev/rewind/internal/domain"
)

// Archivable lists the log segments of base under dir, excluding the active
// file, ordered by ascending sequence. The active file is still being
// appended to and must never be archived.
func Archivable(dir, base, active string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.FilesystemError{Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == active {
			continue
		}
		if IsSegment(base, e.Name()) {
			names = append(names, e.Name())
		}
	}
	SortBySequence(names)
	return names, nil
}

// CollectArchivable copies the closed segments of base from logBinDir into
// archiveDir, preserving modification times. Creating an already-existing
// archive directory is not an error. Returns the copied segment names.
func CollectArchivable(logBinDir, base, active, archiveDir string) ([]string, error) {
	names, err := Archivable(logBinDir, base, active)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return nil, &domain.FilesystemError{Path: archiveDir, Err: err}
	}

	for _, name := range names {
		src := filepath.Join(logBinDir, name)
		dst := filepath.Join(archiveDir, name)
		if err := copyPreservingTimes(src, dst); err != nil {
			return nil, fmt.Errorf("archive segment %s: %w", name, err)
		}
	}
	return names, nil
}

// ArchivedFrom lists the archived segments of base whose sequence number is
// at least resume, ordered by ascending sequence. These are exactly the
// segments not covered by the backup that recorded the resume point.
func ArchivedFrom(archiveDir, base string, resume int) ([]string, error) {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.FilesystemError{Path: archiveDir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsSegment(base, e.Name()) {
			continue
		}
		seq, err := Sequence(e.Name())
		if err != nil {
			continue
		}
		if seq >= resume {
			names = append(names, e.Name())
		}
	}
	SortBySequence(names)
	return names, nil
}

func copyPreservingTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
