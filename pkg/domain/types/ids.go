package types

import "github.com/google/uuid"

// JobID is a UUID-based identifier for a migration job
type JobID string

// NewJobID generates a new UUID v4 JobID
func NewJobID() JobID {
	return JobID(uuid.New().String())
}

// String returns the string representation of the job ID
func (x JobID) String() string {
	return string(x)
}

// ChannelID is a UUID-based identifier for a channel
type ChannelID string

// NewChannelID generates a new UUID v4 ChannelID
func NewChannelID() ChannelID {
	return ChannelID(uuid.New().String())
}

// String returns the string representation of the channel ID
func (x ChannelID) String() string {
	return string(x)
}

// ArticleID is a UUID-based identifier for a migrated article
type ArticleID string

// NewArticleID generates a new UUID v4 ArticleID
func NewArticleID() ArticleID {
	return ArticleID(uuid.New().String())
}

// String returns the string representation of the article ID
func (x ArticleID) String() string {
	return string(x)
}

// SourceID is the identifier of a record in the source store. It is opaque to
// this system except for one property: identifiers sort monotonically, which
// makes them usable as the resumption cursor.
type SourceID string

// String returns the string representation of the source ID
func (x SourceID) String() string {
	return string(x)
}

// PointID identifies a point in the vector index. The index only accepts
// UUIDs, so when a source identifier is not a UUID a fresh one is minted.
type PointID string

// NewPointID returns a PointID for the given source identifier. Source
// identifiers that already parse as UUIDs are kept so that re-migration
// overwrites the same point; anything else gets a random UUID.
func NewPointID(sourceID SourceID) PointID {
	if _, err := uuid.Parse(string(sourceID)); err == nil {
		return PointID(sourceID)
	}
	return PointID(uuid.New().String())
}

// String returns the string representation of the point ID
func (x PointID) String() string {
	return string(x)
}
