package usecase

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/service/transform"
)

// UseCases aggregates the application's entry points. The repository and the
// vector index are both optional: an orchestrator configured with only one of
// them migrates to that target alone, which replaces the original's parallel
// relational-only/vector-only/combined service variants with one pipeline.
type UseCases struct {
	source      interfaces.SourceReader
	repo        interfaces.Repository
	index       interfaces.VectorIndex
	jobs        interfaces.JobStore
	transformer *transform.Transformer
	batchDelay  time.Duration

	Migration *MigrationUseCase
	Search    *SearchUseCase
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithRepository sets the relational target store
func WithRepository(repo interfaces.Repository) Option {
	return func(uc *UseCases) {
		uc.repo = repo
	}
}

// WithVectorIndex sets the vector index target
func WithVectorIndex(index interfaces.VectorIndex) Option {
	return func(uc *UseCases) {
		uc.index = index
	}
}

// WithBatchDelay overrides the inter-batch throttle delay
func WithBatchDelay(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.batchDelay = d
	}
}

// New creates the use case layer. The source reader, job store and
// transformer are always required; targets come in via options.
func New(source interfaces.SourceReader, jobs interfaces.JobStore, transformer *transform.Transformer, opts ...Option) *UseCases {
	uc := &UseCases{
		source:      source,
		jobs:        jobs,
		transformer: transformer,
		batchDelay:  100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Migration = &MigrationUseCase{
		source:      uc.source,
		repo:        uc.repo,
		index:       uc.index,
		jobs:        uc.jobs,
		transformer: uc.transformer,
		batchDelay:  uc.batchDelay,
	}
	uc.Search = &SearchUseCase{index: uc.index}

	return uc
}
