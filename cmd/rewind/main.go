// cmd/rewind/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/semmidev/rewind/internal/app"
	"github.com/semmidev/rewind/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	op := flag.String("op", "backup", "operation: backup, flush-logs, restore, replay, serve")
	db := flag.String("db", "", "database name (all enabled databases when empty)")
	force := flag.Bool("force", false, "back up even when the database is unchanged")
	stopDatetime := flag.String("stop-datetime", "", "inclusive replay bound, e.g. \"2026-08-30 12:00:00\"")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer application.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *op {
	case "backup":
		return application.Backup(ctx, *db, *force)
	case "flush-logs":
		return application.FlushLogs(ctx)
	case "restore":
		return application.Restore(ctx, *db)
	case "replay":
		return application.Replay(ctx, *db, *stopDatetime)
	case "serve":
		return application.Serve(ctx)
	default:
		return fmt.Errorf("unknown operation %q", *op)
	}
}
