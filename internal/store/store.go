package store

import (
	"context"

	"github.com/sells-group/district-atlas/internal/region"
)

// Store defines the persistence interface for the district collection.
type Store interface {
	SaveCollection(ctx context.Context, coll *region.Collection, shapefile, statsCSV string) (*Load, error)
	LoadCollection(ctx context.Context) (*region.Collection, error)
	LatestLoad(ctx context.Context) (*Load, error)

	Migrate(ctx context.Context) error
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
