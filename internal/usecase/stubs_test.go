package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/semmidev/rewind/internal/domain"
)

// fakeServer records the calls the orchestrators make against the live
// server.
type fakeServer struct {
	engines   []string
	engineErr error
	active    string

	calls []string
}

func (s *fakeServer) Ping(ctx context.Context) error { return nil }

func (s *fakeServer) TableEngines(ctx context.Context, db string) ([]string, error) {
	s.calls = append(s.calls, "engines:"+db)
	return s.engines, s.engineErr
}

func (s *fakeServer) ActiveBinlog(ctx context.Context) (string, error) {
	s.calls = append(s.calls, "active")
	return s.active, nil
}

func (s *fakeServer) FlushLogs(ctx context.Context) error {
	s.calls = append(s.calls, "flush")
	return nil
}

func (s *fakeServer) CreateDatabase(ctx context.Context, db string) error {
	s.calls = append(s.calls, "create:"+db)
	return nil
}

func (s *fakeServer) DropDatabase(ctx context.Context, db string) error {
	s.calls = append(s.calls, "drop:"+db)
	return nil
}

type fakeDumper struct {
	payload string
	err     error
	gotOpts domain.DumpOptions
}

func (d *fakeDumper) Dump(ctx context.Context, db string, opts domain.DumpOptions, w io.Writer) error {
	d.gotOpts = opts
	if d.err != nil {
		return d.err
	}
	_, err := fmt.Fprint(w, d.payload)
	return err
}

type fakeLoader struct {
	got string
	err error
}

func (l *fakeLoader) Load(ctx context.Context, db string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	l.got = string(data)
	return l.err
}

type fakeReplayer struct {
	gotSegments []string
	gotStop     string
	called      bool
	err         error
}

func (r *fakeReplayer) Replay(ctx context.Context, db string, segments []string, stopDatetime string) error {
	r.called = true
	r.gotSegments = segments
	r.gotStop = stopDatetime
	return r.err
}

type nopLogger struct{}

func (nopLogger) Infof(template string, args ...interface{})  {}
func (nopLogger) Errorf(template string, args ...interface{}) {}
func (nopLogger) Warnf(template string, args ...interface{})  {}
