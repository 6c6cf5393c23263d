package interfaces

import (
	"context"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Repository defines the interface for the relational target store
type Repository interface {
	Channel() ChannelRepository
	Article() ArticleRepository

	Close() error
}

// ChannelRepository defines channel persistence. Channels are upserted by
// name: the orchestrator calls GetByName first and only creates on not-found.
type ChannelRepository interface {
	// GetByName retrieves a channel by its unique name.
	// Returns model.ErrNotFound when no channel has that name.
	GetByName(ctx context.Context, name string) (*model.Channel, error)

	// Create creates a new channel
	Create(ctx context.Context, channel *model.Channel) (*model.Channel, error)

	// UpdateStatus updates the migration status of a channel
	UpdateStatus(ctx context.Context, id types.ChannelID, status types.ChannelStatus) error
}

// ArticleRepository defines article persistence
type ArticleRepository interface {
	// Create inserts a migrated article
	Create(ctx context.Context, article *model.Article) (*model.Article, error)

	// ListByChannel retrieves articles of a channel, newest first
	ListByChannel(ctx context.Context, channelID types.ChannelID, limit, offset int) ([]*model.Article, error)

	// CountByChannel returns the number of articles in a channel
	CountByChannel(ctx context.Context, channelID types.ChannelID) (int64, error)
}
