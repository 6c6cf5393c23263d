package interfaces

import (
	"context"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// JobStore persists migration job state. The orchestrator writes to it after
// every batch and the status-query surface reads from it; how durable the
// backing store is belongs to the caller (the shipped backend is in-memory).
type JobStore interface {
	// Create registers a new job. Returns an error if the ID already exists.
	Create(ctx context.Context, job *model.MigrationJob) error

	// Get retrieves a job snapshot by ID.
	// Returns model.ErrNotFound when the job does not exist.
	Get(ctx context.Context, id types.JobID) (*model.MigrationJob, error)

	// Update replaces the stored state of a job
	Update(ctx context.Context, job *model.MigrationJob) error
}
