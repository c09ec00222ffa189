package domain

import (
	"context"
	"io"
)

// EngineClass is the result of inspecting a database's storage engines.
// It is derived per backup invocation and never persisted.
type EngineClass int

const (
	// EngineAllInnoDB means every table in the database uses InnoDB, so a
	// non-locking single-transaction dump is consistent.
	EngineAllInnoDB EngineClass = iota
	// EngineOther covers mixed-engine and empty databases, which need table
	// locks for a consistent dump.
	EngineOther
)

func (c EngineClass) String() string {
	if c == EngineAllInnoDB {
		return "all-innodb"
	}
	return "other"
}

// Server is the live database server, queried over a client connection.
type Server interface {
	Ping(ctx context.Context) error
	// TableEngines returns the storage engine of every base table in db.
	TableEngines(ctx context.Context, db string) ([]string, error)
	// ActiveBinlog returns the name of the binary log file the server is
	// currently writing to.
	ActiveBinlog(ctx context.Context) (string, error)
	FlushLogs(ctx context.Context) error
	CreateDatabase(ctx context.Context, db string) error
	// DropDatabase drops db if it exists; a missing database is not an error.
	DropDatabase(ctx context.Context, db string) error
}

// DumpOptions is the typed option set for the dump tool. Options are
// enumerated here and serialized to the tool's argument list only at the
// process-invocation boundary.
type DumpOptions struct {
	SingleTransaction bool
	SkipLockTables    bool
	LockAllTables     bool
	DisableKeys       bool
	AddDropTable      bool
	ExtendedInsert    bool
	FlushLogs         bool
	Quick             bool

	// Override, when non-empty, is passed to the dump tool verbatim and
	// every enumerated option above is ignored.
	Override []string
}

// Dumper streams a logical SQL dump of one database to w.
type Dumper interface {
	Dump(ctx context.Context, db string, opts DumpOptions, w io.Writer) error
}

// Loader streams SQL from r into the named database.
type Loader interface {
	Load(ctx context.Context, db string, r io.Reader) error
}

// Replayer replays ordered binlog segments against db, optionally stopping
// at an inclusive datetime (empty string means no bound).
type Replayer interface {
	Replay(ctx context.Context, db string, segments []string, stopDatetime string) error
}

// Compressor produces and consumes compressed byte streams.
type Compressor interface {
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Storage is a destination finished backup artifacts are mirrored to after
// a successful backup. Upload failures are reported but never fail the
// backup itself.
type Storage interface {
	Upload(ctx context.Context, localPath string, remoteName string) error
}
