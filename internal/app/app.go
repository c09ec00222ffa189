package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/semmidev/rewind/internal/adapter/compressor"
	"github.com/semmidev/rewind/internal/adapter/mysql"
	"github.com/semmidev/rewind/internal/adapter/storage"
	"github.com/semmidev/rewind/internal/binlog"
	"github.com/semmidev/rewind/internal/config"
	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/infrastructure/logger"
	"github.com/semmidev/rewind/internal/infrastructure/runlock"
	"github.com/semmidev/rewind/internal/infrastructure/scheduler"
	"github.com/semmidev/rewind/internal/naming"
	"github.com/semmidev/rewind/internal/usecase"
)

const lockName = "rewind.lock"

type App struct {
	config    *config.Config
	logger    *logger.Logger
	scheduler *scheduler.Scheduler
	client    *mysql.Client

	backupUC  *usecase.Backup
	flushUC   *usecase.Flush
	restoreUC *usecase.Restore
	replayUC  *usecase.Replay
}

func New(cfg *config.Config) (*App, error) {
	// Initialize logger
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)
	log.Infof("Found %d enabled database(s)", len(cfg.EnabledDatabases()))

	connCfg := mysql.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		User:     cfg.Server.User,
		Password: cfg.Server.Password,
	}

	client, err := mysql.NewClient(connCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to initialize server client: %w", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		client.Close()
		log.Close()
		return nil, err
	}
	log.Infof("✓ Connected to %s:%d", cfg.Server.Host, cfg.Server.Port)

	comp := compressor.NewPgzip(cfg.Backup.CompressLevel)
	scheme := naming.NewScheme(cfg.Backup.Dir)
	tracker := binlog.NewTracker(client, scheme)
	detector := usecase.ChangeDetector{
		Scheme:  scheme,
		DataDir: cfg.Server.DataDir,
		Now:     time.Now,
	}

	uploadTargets := initializeUploadTargets(cfg, log)

	backupUC := usecase.NewBackup(client, mysql.NewDumper(connCfg), comp, tracker, scheme, detector, uploadTargets, log)
	flushUC := usecase.NewFlush(client, cfg.Server.BinlogDir, cfg.Server.BinlogBase, cfg.LogArchiveDir(), log)
	restoreUC := usecase.NewRestore(client, mysql.NewLoader(connCfg), comp, scheme, log)
	replayUC := usecase.NewReplay(client, mysql.NewReplayer(connCfg), scheme, cfg.Server.BinlogBase, cfg.LogArchiveDir(), log)

	return &App{
		config:    cfg,
		logger:    log,
		scheduler: scheduler.New(),
		client:    client,
		backupUC:  backupUC,
		flushUC:   flushUC,
		restoreUC: restoreUC,
		replayUC:  replayUC,
	}, nil
}

func initializeUploadTargets(cfg *config.Config, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.EnabledUploadTargets() {
		var stor domain.Storage
		var err error

		switch targetCfg.Type {
		case "local":
			stor, err = storage.NewLocalMirror(targetCfg.Path)
			if err != nil {
				log.Errorf("Failed to initialize local mirror: %v", err)
				continue
			}
			log.Infof("✓ Local mirror enabled (%s)", targetCfg.Path)

		case "gdrive":
			stor, err = storage.NewGDrive(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Google Drive: %v", err)
				continue
			}
			log.Infof("✓ Google Drive upload enabled")

		case "s3":
			stor, err = storage.NewS3(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize S3: %v", err)
				continue
			}
			log.Infof("✓ AWS S3 upload enabled (bucket: %s)", targetCfg.Bucket)

		case "telegram":
			stor, err = storage.NewTelegram(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Telegram: %v", err)
				continue
			}
			log.Infof("✓ Telegram upload enabled")

		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
			continue
		}

		targets = append(targets, usecase.UploadTarget{
			Name:    targetCfg.Type,
			Storage: stor,
		})
	}

	return targets
}

// Backup backs up one named database, or every enabled one when name is
// empty. Databases fail independently; one broken dump never stops the rest
// of the run.
func (a *App) Backup(ctx context.Context, name string, force bool) error {
	lock, err := runlock.Acquire(a.config.Backup.Dir, lockName)
	if err != nil {
		return err
	}
	defer lock.Release()

	dbs, err := a.selectDatabases(name)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, db := range dbs {
		if err := a.backupUC.Execute(ctx, db, force); err != nil {
			a.logger.Errorf("[%s] Backup failed: %v", db.Name, err)
			result = multierror.Append(result, err)
		}
	}

	// The dump's own log rotation closed the previous segment; sweep every
	// closed one into the archive so a later replay can reach it.
	if err := a.archiveClosedSegments(ctx); err != nil {
		a.logger.Errorf("Failed to archive binlog segments: %v", err)
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func (a *App) archiveClosedSegments(ctx context.Context) error {
	active, err := a.client.ActiveBinlog(ctx)
	if err != nil {
		return err
	}
	copied, err := binlog.CollectArchivable(a.config.Server.BinlogDir, a.config.Server.BinlogBase, active, a.config.LogArchiveDir())
	if err != nil {
		return err
	}
	if len(copied) > 0 {
		a.logger.Infof("Archived %d binlog segment(s)", len(copied))
	}
	return nil
}

// FlushLogs rotates the server's logs and archives every closed segment.
func (a *App) FlushLogs(ctx context.Context) error {
	lock, err := runlock.Acquire(a.config.Backup.Dir, lockName)
	if err != nil {
		return err
	}
	defer lock.Release()

	return a.flushUC.Execute(ctx)
}

// Restore rebuilds one database from its newest artifact.
func (a *App) Restore(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("restore requires a database name")
	}

	lock, err := runlock.Acquire(a.config.Backup.Dir, lockName)
	if err != nil {
		return err
	}
	defer lock.Release()

	return a.restoreUC.Execute(ctx, name)
}

// Replay rolls one database forward from its last recorded marker,
// optionally stopping at stopDatetime.
func (a *App) Replay(ctx context.Context, name, stopDatetime string) error {
	if name == "" {
		return fmt.Errorf("replay requires a database name")
	}

	lock, err := runlock.Acquire(a.config.Backup.Dir, lockName)
	if err != nil {
		return err
	}
	defer lock.Release()

	return a.replayUC.Execute(ctx, name, stopDatetime)
}

// Serve runs scheduled backups until the context is cancelled. The run lock
// is held for the whole serve lifetime so one-shot runs cannot interleave.
func (a *App) Serve(ctx context.Context) error {
	lock, err := runlock.Acquire(a.config.Backup.Dir, lockName)
	if err != nil {
		return err
	}
	defer lock.Release()

	scheduled := 0
	for _, db := range a.config.EnabledDatabases() {
		if db.Schedule == "" {
			a.logger.Warnf("[%s] No schedule configured, skipping", db.Name)
			continue
		}

		dbCfg := db
		if err := a.scheduler.AddJob(db.Schedule, func(ctx context.Context) error {
			a.logger.Infof("=== Triggered scheduled backup for %s ===", dbCfg.Name)
			if err := a.backupUC.Execute(ctx, dbCfg, false); err != nil {
				return err
			}
			return a.archiveClosedSegments(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule backup for %s: %w", dbCfg.Name, err)
		}

		a.logger.Infof("✓ Scheduled backup for %s: %s", dbCfg.Name, dbCfg.Schedule)
		scheduled++
	}

	if scheduled == 0 {
		return fmt.Errorf("no schedulable databases found")
	}

	a.scheduler.Start()
	a.logger.Infof("Scheduler started with %d job(s)", scheduled)

	<-ctx.Done()
	return nil
}

func (a *App) selectDatabases(name string) ([]config.DatabaseConfig, error) {
	if name == "" {
		dbs := a.config.EnabledDatabases()
		if len(dbs) == 0 {
			return nil, fmt.Errorf("no enabled databases found")
		}
		return dbs, nil
	}

	for _, db := range a.config.Databases {
		if db.Name == name {
			return []config.DatabaseConfig{db}, nil
		}
	}
	return nil, fmt.Errorf("database %q is not configured", name)
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.scheduler.Stop()
	if err := a.client.Close(); err != nil {
		a.logger.Errorf("Failed to close server connection: %v", err)
	}
	a.logger.Close()
}
