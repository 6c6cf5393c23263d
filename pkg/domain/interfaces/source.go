package interfaces

import (
	"context"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// SourceReader provides paginated, resumable read access to the source
// document store. Pagination is cursor-based on the record identifier
// (strictly greater than), never skip/offset, so a crash mid-run can resume
// without re-scanning. Connection errors propagate uncaught; the orchestrator
// decides whether they are fatal.
type SourceReader interface {
	// Count returns the number of migration-candidate records, optionally
	// bounded by a publication date range
	Count(ctx context.Context, dateRange *model.DateRange) (int64, error)

	// FetchBatch returns up to limit records with identifiers strictly greater
	// than afterID, ascending by identifier. An empty afterID starts from the
	// beginning. An empty result means the source is exhausted.
	FetchBatch(ctx context.Context, limit int, afterID types.SourceID, dateRange *model.DateRange) ([]*model.SourceRecord, error)

	// Ping verifies connectivity without fetching
	Ping(ctx context.Context) error

	// Close releases the connection
	Close(ctx context.Context) error
}
