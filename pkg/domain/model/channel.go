package model

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Channel is a logical grouping that owns migrated articles, typically one
// per external news source. Names are unique; the orchestrator looks a
// channel up by name before creating it so that re-runs stay idempotent.
type Channel struct {
	ID        types.ChannelID
	Name      string
	Status    types.ChannelStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewChannel creates a channel in the pending state
func NewChannel(name string) *Channel {
	return &Channel{
		ID:     types.NewChannelID(),
		Name:   name,
		Status: types.ChannelStatusPending,
	}
}
