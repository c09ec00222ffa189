package domain

import (
	"errors"
	"fmt"
)

// ConnectivityError wraps a failure to reach or authenticate to the server.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("server unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// NotFoundError reports a missing prerequisite artifact, such as a restore
// target with no prior backup.
type NotFoundError struct {
	Database string
	What     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for database %q", e.What, e.Database)
}

// ProcessError reports an external tool that exited non-zero.
type ProcessError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// FilesystemError reports an unreadable or uncreatable path.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error at %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// StageError tags a failure with the database and pipeline stage it occurred
// in, so a multi-database run can report exactly what broke.
type StageError struct {
	Database string
	Stage    string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] stage %s: %v", e.Database, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
