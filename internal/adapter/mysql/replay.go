package mysql

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/semmidev/rewind/internal/domain"
)

// Replayer feeds ordered binlog segments through mysqlbinlog into the
// server. It implements domain.Replayer.
type Replayer struct {
	cfg Config
}

func NewReplayer(cfg Config) *Replayer {
	return &Replayer{cfg: cfg}
}

// Replay runs the two-stage pipeline mysqlbinlog -> mysql. Both exit
// statuses are checked; a failure in either stage fails the replay and names
// the tool that broke.
func (r *Replayer) Replay(ctx context.Context, db string, segments []string, stopDatetime string) error {
	if len(segments) == 0 {
		return fmt.Errorf("no segments to replay")
	}

	binlogArgs := []string{"--database=" + db}
	if stopDatetime != "" {
		binlogArgs = append(binlogArgs, "--stop-datetime="+stopDatetime)
	}
	binlogArgs = append(binlogArgs, segments...)

	produce := exec.CommandContext(ctx, "mysqlbinlog", binlogArgs...)
	var produceStderr strings.Builder
	produce.Stderr = &produceStderr

	consume := exec.CommandContext(ctx, "mysql", connArgs(r.cfg)...)
	consume.Env = toolEnv(r.cfg)
	var consumeStderr strings.Builder
	consume.Stderr = &consumeStderr

	pipe, err := produce.StdoutPipe()
	if err != nil {
		return fmt.Errorf("replay pipe: %w", err)
	}
	consume.Stdin = pipe

	if err := produce.Start(); err != nil {
		return &domain.ProcessError{Tool: "mysqlbinlog", Err: err}
	}
	if err := consume.Start(); err != nil {
		produce.Process.Kill()
		produce.Wait()
		return &domain.ProcessError{Tool: "mysql", Err: err}
	}

	consumeErr := consume.Wait()
	produceErr := produce.Wait()

	if produceErr != nil {
		return &domain.ProcessError{Tool: "mysqlbinlog", Stderr: stderrTail(produceStderr.String()), Err: produceErr}
	}
	if consumeErr != nil {
		return &domain.ProcessError{Tool: "mysql", Stderr: stderrTail(consumeStderr.String()), Err: consumeErr}
	}
	return nil
}
