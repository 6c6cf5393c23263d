package memory

import (
	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory relational store used by tests and development mode
type Memory struct {
	channel *channelRepository
	article *articleRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		channel: newChannelRepository(),
		article: newArticleRepository(),
	}
}

func (m *Memory) Channel() interfaces.ChannelRepository {
	return m.channel
}

func (m *Memory) Article() interfaces.ArticleRepository {
	return m.article
}

func (m *Memory) Close() error {
	return nil
}
