package model

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// DefaultEmbeddingDimension is the vector size used unless configured
// otherwise. OpenAI text-embedding-3-small emits 1536 dimensions.
const DefaultEmbeddingDimension = 1536

// PreviewMaxLength caps the truncated content preview stored in the payload
const PreviewMaxLength = 500

// VectorPoint is one entry of the vector index: a UUID identifier, an
// embedding and the payload used for filtered search. Points created by the
// transformer carry an empty Vector; the index writer fills it in at upsert.
type VectorPoint struct {
	ID      types.PointID
	Vector  []float32
	Payload VectorPayload
}

// VectorPayload is the non-vector metadata stored alongside a point
type VectorPayload struct {
	ChannelID      string
	Title          string
	Content        string
	Preview        string // first PreviewMaxLength chars of Content
	PublishedAt    string // RFC 3339, empty when the source has no date
	Categories     []int64
	Tags           []int64
	EventCategory  types.EventCategory
	PoliticalScore *float64
	URL            string
	SourceID       string // original identifier when the point ID was minted fresh
}

// EmbeddingText returns the text the embedding is computed from
func (p *VectorPoint) EmbeddingText() string {
	if p.Payload.Content == "" {
		return p.Payload.Title
	}
	return p.Payload.Title + "\n" + p.Payload.Content
}

// SearchFilter narrows a similarity search. Zero-valued fields are ignored.
type SearchFilter struct {
	ChannelID       string
	Categories      []int64 // any-of
	EventCategory   types.EventCategory
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
}

// SearchOptions control a similarity search
type SearchOptions struct {
	Limit          int
	ScoreThreshold float32
	Filter         *SearchFilter
}

// SearchResult is one ranked hit from the vector index
type SearchResult struct {
	ID      types.PointID
	Score   float32
	Payload VectorPayload
}

// IndexStats is a snapshot of collection health
type IndexStats struct {
	TotalPoints   uint64
	IndexedPoints uint64
	Status        string
}
