package mysql

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/semmidev/rewind/internal/domain"
)

// Dumper streams mysqldump output for one database. It implements
// domain.Dumper.
type Dumper struct {
	cfg Config
}

func NewDumper(cfg Config) *Dumper {
	return &Dumper{cfg: cfg}
}

// Dump runs mysqldump with the serialized option set and writes the dump
// stream to w. The caller typically hands in a compressing writer, so dump
// and compression run concurrently without an intermediate file.
func (d *Dumper) Dump(ctx context.Context, db string, opts domain.DumpOptions, w io.Writer) error {
	args := append(connArgs(d.cfg), dumpArgs(opts)...)
	args = append(args, db)

	cmd := exec.CommandContext(ctx, "mysqldump", args...)
	cmd.Env = toolEnv(d.cfg)
	cmd.Stdout = w

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &domain.ProcessError{Tool: "mysqldump", Stderr: stderrTail(stderr.String()), Err: err}
	}
	return nil
}

// dumpArgs serializes the typed option set to mysqldump arguments. This is
// the only place options become strings.
func dumpArgs(opts domain.DumpOptions) []string {
	if len(opts.Override) > 0 {
		return opts.Override
	}

	var args []string
	if opts.SingleTransaction {
		args = append(args, "--single-transaction")
	}
	if opts.SkipLockTables {
		args = append(args, "--skip-lock-tables")
	}
	if opts.LockAllTables {
		args = append(args, "--lock-all-tables")
	}
	if opts.DisableKeys {
		args = append(args, "--disable-keys")
	}
	if opts.AddDropTable {
		args = append(args, "--add-drop-table")
	}
	if opts.ExtendedInsert {
		args = append(args, "--extended-insert")
	}
	if opts.FlushLogs {
		args = append(args, "--flush-logs")
	}
	if opts.Quick {
		args = append(args, "--quick")
	}
	return args
}
