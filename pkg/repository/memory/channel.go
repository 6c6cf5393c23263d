package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

type channelRepository struct {
	mu       sync.RWMutex
	channels map[types.ChannelID]*model.Channel
}

func newChannelRepository() *channelRepository {
	return &channelRepository{
		channels: make(map[types.ChannelID]*model.Channel),
	}
}

// copyChannel creates a deep copy of a channel
func copyChannel(channel *model.Channel) *model.Channel {
	copied := *channel
	return &copied
}

func (r *channelRepository) GetByName(ctx context.Context, name string) (*model.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, channel := range r.channels {
		if channel.Name == name {
			return copyChannel(channel), nil
		}
	}

	return nil, goerr.Wrap(model.ErrNotFound, "channel not found", goerr.V("name", name))
}

func (r *channelRepository) Create(ctx context.Context, channel *model.Channel) (*model.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.channels {
		if existing.Name == channel.Name {
			return nil, goerr.New("channel name already exists", goerr.V("name", channel.Name))
		}
	}

	now := time.Now().UTC()
	created := copyChannel(channel)
	if created.ID == "" {
		created.ID = types.NewChannelID()
	}
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.channels[created.ID] = created
	return copyChannel(created), nil
}

func (r *channelRepository) UpdateStatus(ctx context.Context, id types.ChannelID, status types.ChannelStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, exists := r.channels[id]
	if !exists {
		return goerr.Wrap(model.ErrNotFound, "channel not found", goerr.V("id", id))
	}

	channel.Status = status
	channel.UpdatedAt = time.Now().UTC()
	return nil
}
