package engine

import (
	"context"
	"fmt"

	"github.com/semmidev/rewind/internal/domain"
)

// EngineLister is the slice of the server the classifier needs.
type EngineLister interface {
	TableEngines(ctx context.Context, db string) ([]string, error)
}

// Classify inspects the storage engines of every table in db. Only a
// database whose tables are exclusively InnoDB can be dumped consistently
// without locks; an empty database classifies as Other. A failed query
// propagates instead of defaulting, so connectivity problems surface.
func Classify(ctx context.Context, server EngineLister, db string) (domain.EngineClass, error) {
	engines, err := server.TableEngines(ctx, db)
	if err != nil {
		return domain.EngineOther, fmt.Errorf("classify %s: %w", db, err)
	}

	if len(engines) == 0 {
		return domain.EngineOther, nil
	}
	for _, e := range engines {
		if e != "InnoDB" {
			return domain.EngineOther, nil
		}
	}
	return domain.EngineAllInnoDB, nil
}
