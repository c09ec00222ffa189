package usecase

import (
	"context"
	"fmt"

	"github.com/semmidev/rewind/internal/binlog"
	"github.com/semmidev/rewind/internal/domain"
)

// Flush is the log-only incremental step: rotate the server's logs, then
// copy every closed segment into the archive directory.
type Flush struct {
	server     domain.Server
	binlogDir  string
	binlogBase string
	archiveDir string
	log        Logger
}

func NewFlush(server domain.Server, binlogDir, binlogBase, archiveDir string, log Logger) *Flush {
	return &Flush{
		server:     server,
		binlogDir:  binlogDir,
		binlogBase: binlogBase,
		archiveDir: archiveDir,
		log:        log,
	}
}

func (uc *Flush) Execute(ctx context.Context) error {
	if err := uc.server.FlushLogs(ctx); err != nil {
		return fmt.Errorf("flush logs: %w", err)
	}

	// The file the server rotated onto stays put; only closed segments move.
	active, err := uc.server.ActiveBinlog(ctx)
	if err != nil {
		return fmt.Errorf("query active binlog: %w", err)
	}

	copied, err := binlog.CollectArchivable(uc.binlogDir, uc.binlogBase, active, uc.archiveDir)
	if err != nil {
		return fmt.Errorf("collect binlog segments: %w", err)
	}

	uc.log.Infof("Flushed logs, archived %d segment(s), active file: %s", len(copied), active)
	return nil
}
