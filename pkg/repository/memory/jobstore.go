package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// JobStore keeps migration job state in memory. It replaces the original
// process-global job map with an explicit store so the orchestrator and the
// status-query surface no longer share mutable state directly.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[types.JobID]*model.MigrationJob
}

var _ interfaces.JobStore = &JobStore{}

// NewJobStore creates an empty in-memory job store
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[types.JobID]*model.MigrationJob),
	}
}

func (s *JobStore) Create(ctx context.Context, job *model.MigrationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return goerr.New("job already exists", goerr.V("id", job.ID))
	}

	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *JobStore) Get(ctx context.Context, id types.JobID) (*model.MigrationJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "job not found", goerr.V("id", id))
	}

	return job.Clone(), nil
}

func (s *JobStore) Update(ctx context.Context, job *model.MigrationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; !exists {
		return goerr.Wrap(model.ErrNotFound, "job not found", goerr.V("id", job.ID))
	}

	s.jobs[job.ID] = job.Clone()
	return nil
}
