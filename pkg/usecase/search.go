package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// SearchUseCase exposes the vector index's query surface
type SearchUseCase struct {
	index interfaces.VectorIndex
}

// ErrNoVectorIndex is returned when search is requested without a configured
// vector index backend
var ErrNoVectorIndex = goerr.New("vector index is not configured")

// Search runs a filtered similarity search over migrated articles
func (uc *SearchUseCase) Search(ctx context.Context, query string, opts model.SearchOptions) ([]*model.SearchResult, error) {
	if uc.index == nil {
		return nil, ErrNoVectorIndex
	}
	return uc.index.Search(ctx, query, opts)
}

// ByChannelAndCategory lists points of one channel and event category
func (uc *SearchUseCase) ByChannelAndCategory(ctx context.Context, channelID types.ChannelID, category types.EventCategory, limit int) ([]*model.SearchResult, error) {
	if uc.index == nil {
		return nil, ErrNoVectorIndex
	}
	return uc.index.FindByChannelAndCategory(ctx, channelID, category, limit)
}

// Stats returns collection statistics
func (uc *SearchUseCase) Stats(ctx context.Context) (*model.IndexStats, error) {
	if uc.index == nil {
		return nil, ErrNoVectorIndex
	}
	return uc.index.Stats(ctx)
}
