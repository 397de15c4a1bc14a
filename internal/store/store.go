// Package store persists render-run history and cached boundary files.
// Two implementations exist: SQLite for local single-user use and
// Postgres for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/bivarmap/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the render pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, job model.RenderJob) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, errMsg string) error
	CompleteRun(ctx context.Context, runID string, outputPath string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Boundary cache
	CachedBoundary(ctx context.Context, url string) (*model.BoundaryCache, error)
	PutBoundary(ctx context.Context, url string, etag string, body []byte) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
