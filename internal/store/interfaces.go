package store

import (
	"context"

	"github.com/yangwenmai/prodpage/internal/model"
)

// StatusCounts holds the number of runs per status.
type StatusCounts map[string]int

// RunReader provides read access to runs.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*model.RunWithArtifacts, error)
	ListRuns(ctx context.Context, f model.RunFilter) ([]model.Run, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

// RunWriter provides write access to runs.
type RunWriter interface {
	CreateRun(ctx context.Context, run model.Run) error
	UpdateRunStatus(ctx context.Context, id, newStatus string, errorInfo *string) error
	UpdateRunResult(ctx context.Context, id string, isValid bool, validationErrors *string, retryCount int) error
}

// RunClaimer provides atomic claim operations for background processing.
type RunClaimer interface {
	ClaimNextQueued(ctx context.Context) (*model.Run, error)
	ResetStaleProcessing(ctx context.Context) (int64, error)
}

// ArtifactStore provides access to artifact persistence.
type ArtifactStore interface {
	UpsertArtifact(ctx context.Context, a model.Artifact) error
}

// RunRepository combines all run-related operations for the API layer.
type RunRepository interface {
	RunReader
	RunWriter
	ArtifactStore
}
