package interfaces

import (
	"context"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// VectorIndex owns the lifecycle of the article vector collection
type VectorIndex interface {
	// EnsureCollection creates the collection and its payload indexes if
	// absent. Idempotent.
	EnsureCollection(ctx context.Context) error

	// UpsertBatch embeds any point lacking a vector and writes all points in
	// one batch with wait-for-completion semantics. A point whose embedding
	// cannot be computed is skipped, not fatal; the returned count is the
	// number of points actually stored.
	UpsertBatch(ctx context.Context, points []*model.VectorPoint) (int, error)

	// Search embeds queryText and returns ranked results ordered by descending
	// similarity, truncated to the limit and threshold in opts
	Search(ctx context.Context, queryText string, opts model.SearchOptions) ([]*model.SearchResult, error)

	// FindByChannelAndCategory is an exact-match scroll, not a similarity
	// search; result scores are fixed at 1.0
	FindByChannelAndCategory(ctx context.Context, channelID types.ChannelID, category types.EventCategory, limit int) ([]*model.SearchResult, error)

	// DeleteByChannel removes all points of a channel
	DeleteByChannel(ctx context.Context, channelID types.ChannelID) error

	// Stats returns a snapshot of collection health
	Stats(ctx context.Context) (*model.IndexStats, error)

	// HealthCheck reports whether the index is reachable
	HealthCheck(ctx context.Context) bool

	// Close releases the client connection
	Close() error
}
