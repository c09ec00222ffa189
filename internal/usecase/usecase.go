package usecase

import (
	"context"
	"sync"

	"github.com/semmidev/rewind/internal/domain"
)

// Logger is the narrow logging surface the orchestrators need.
type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// UploadTarget is a named remote destination for finished artifacts.
type UploadTarget struct {
	Name    string
	Storage domain.Storage
}

// uploadToTargets mirrors a finished file to every target concurrently.
// Upload failures are logged, never returned: a backup that exists locally
// is a success.
func uploadToTargets(ctx context.Context, targets []UploadTarget, log Logger, db, path, name string) {
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(t UploadTarget) {
			defer wg.Done()

			if err := t.Storage.Upload(ctx, path, name); err != nil {
				log.Errorf("[%s] Failed to upload %s to %s: %v", db, name, t.Name, err)
			} else {
				log.Infof("[%s] Uploaded %s to %s", db, name, t.Name)
			}
		}(target)
	}
	wg.Wait()
}
