package mysql

import (
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/semmidev/rewind/internal/domain"
)

// Loader streams SQL into the server through the mysql client. It implements
// domain.Loader.
type Loader struct {
	cfg Config
}

func NewLoader(cfg Config) *Loader {
	return &Loader{cfg: cfg}
}

func (l *Loader) Load(ctx context.Context, db string, r io.Reader) error {
	args := append(connArgs(l.cfg), db)

	cmd := exec.CommandContext(ctx, "mysql", args...)
	cmd.Env = toolEnv(l.cfg)
	cmd.Stdin = r

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &domain.ProcessError{Tool: "mysql", Stderr: stderrTail(stderr.String()), Err: err}
	}
	return nil
}
