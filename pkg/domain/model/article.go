package model

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Article is a migrated news article in the relational store. SourceMetadata
// is the only place the original raw data survives after migration: it packs
// the source identifier, slug, category/tag ids, hit count, attachment
// structures and the uncleaned body into one JSON blob.
type Article struct {
	ID                types.ArticleID
	ChannelID         types.ChannelID
	Title             string
	Content           string // cleaned plain text
	Summary           string
	PublishedAt       *time.Time
	AnalysisCompleted bool
	SourceMetadata    map[string]any
	MigratedAt        time.Time
	CreatedAt         time.Time
}
