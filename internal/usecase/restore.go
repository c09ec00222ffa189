package usecase

import (
	"context"
	"os"
	"time"

	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/naming"
)

// Restore rebuilds a database from its newest full-backup artifact:
// locate, drop, create, decompress-load.
type Restore struct {
	server domain.Server
	loader domain.Loader
	comp   domain.Compressor
	scheme naming.Scheme
	log    Logger
	now    func() time.Time
}

func NewRestore(server domain.Server, loader domain.Loader, comp domain.Compressor, scheme naming.Scheme, log Logger) *Restore {
	return &Restore{
		server: server,
		loader: loader,
		comp:   comp,
		scheme: scheme,
		log:    log,
		now:    time.Now,
	}
}

func (uc *Restore) Execute(ctx context.Context, db string) error {
	start := uc.now()

	// Locate before touching the server: a database with no artifact must
	// fail without any drop/create side effects.
	artifact, _, ok, err := uc.scheme.NewestArtifact(db)
	if err != nil {
		return &domain.StageError{Database: db, Stage: "locate", Err: err}
	}
	if !ok {
		return &domain.StageError{Database: db, Stage: "locate",
			Err: &domain.NotFoundError{Database: db, What: "backup artifact"}}
	}
	uc.log.Infof("[%s] Restoring from %s", db, artifact)

	if err := uc.server.DropDatabase(ctx, db); err != nil {
		return &domain.StageError{Database: db, Stage: "drop", Err: err}
	}
	if err := uc.server.CreateDatabase(ctx, db); err != nil {
		return &domain.StageError{Database: db, Stage: "create", Err: err}
	}

	if err := uc.load(ctx, db, artifact); err != nil {
		return &domain.StageError{Database: db, Stage: "load", Err: err}
	}

	uc.log.Infof("[%s] Restore completed in %s", db, uc.now().Sub(start).Round(time.Second))
	return nil
}

func (uc *Restore) load(ctx context.Context, db, artifact string) error {
	in, err := os.Open(artifact)
	if err != nil {
		return &domain.FilesystemError{Path: artifact, Err: err}
	}
	defer in.Close()

	zr, err := uc.comp.NewReader(in)
	if err != nil {
		return err
	}
	defer zr.Close()

	return uc.loader.Load(ctx, db, zr)
}
