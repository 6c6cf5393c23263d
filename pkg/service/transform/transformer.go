package transform

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/service/normalize"
)

// Transformer maps a source record into its two divergent target shapes: a
// relational article row and a vector-index point. Both paths run the
// normalizer first and short-circuit with a skip (not an error) when the
// record fails validation; skips are counted separately from failures
// throughout the pipeline.
type Transformer struct {
	normalizer  *normalize.Normalizer
	categorizer *Categorizer
}

// Option is a functional option for Transformer configuration
type Option func(*Transformer)

// WithCategorizer replaces the built-in event categorizer
func WithCategorizer(c *Categorizer) Option {
	return func(t *Transformer) {
		t.categorizer = c
	}
}

// New creates a Transformer validating with the given policy
func New(policy normalize.Policy, opts ...Option) *Transformer {
	t := &Transformer{
		normalizer:  normalize.New(policy),
		categorizer: NewCategorizer(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ArticleResult is the outcome of a relational transform. Skipped results
// carry the validation issues instead of an article.
type ArticleResult struct {
	Article *model.Article
	Skipped bool
	Issues  []string
}

// ToArticle maps a source record into a relational article for the given
// channel. Returns a skipped result when the record fails validation.
func (t *Transformer) ToArticle(record *model.SourceRecord, channelID types.ChannelID) *ArticleResult {
	normalized := t.normalizer.Normalize(record)
	if !normalized.IsValid {
		return &ArticleResult{Skipped: true, Issues: normalized.Issues}
	}

	return &ArticleResult{
		Article: &model.Article{
			ID:             types.NewArticleID(),
			ChannelID:      channelID,
			Title:          record.Title,
			Content:        normalized.Content,
			Summary:        normalized.Summary,
			PublishedAt:    record.PublishedAt,
			SourceMetadata: sourceMetadata(record),
			MigratedAt:     time.Now().UTC(),
		},
	}
}

// ToVectorPoint maps a source record into a vector-index point for the given
// channel. Returns nil when the record fails validation. The point's vector
// is left empty; the index writer computes it at upsert time.
func (t *Transformer) ToVectorPoint(record *model.SourceRecord, channelID types.ChannelID) *model.VectorPoint {
	normalized := t.normalizer.Normalize(record)
	if !normalized.IsValid {
		return nil
	}

	pointID := types.NewPointID(record.ID)

	payload := model.VectorPayload{
		ChannelID:     channelID.String(),
		Title:         record.Title,
		Content:       normalized.Content,
		Preview:       preview(normalized.Content),
		Categories:    record.Categories,
		Tags:          record.Tags,
		EventCategory: t.categorizer.Categorize(record.Title, normalized.Content),
		URL:           record.URL,
	}
	if record.PublishedAt != nil {
		payload.PublishedAt = record.PublishedAt.UTC().Format(time.RFC3339)
	}
	if pointID.String() != record.ID.String() {
		payload.SourceID = record.ID.String()
	}

	return &model.VectorPoint{
		ID:      pointID,
		Payload: payload,
	}
}

// sourceMetadata packs everything from the raw record that has no column of
// its own. This blob is the only place the original data survives after
// migration.
func sourceMetadata(record *model.SourceRecord) map[string]any {
	metadata := map[string]any{
		"source_id":  record.ID.String(),
		"slug":       record.Slug,
		"url":        record.URL,
		"categories": record.Categories,
		"tags":       record.Tags,
		"hit_count":  record.HitCount,
	}
	if record.Status != nil {
		metadata["status"] = *record.Status
	}
	if len(record.Media) > 0 {
		metadata["media"] = record.Media
	}
	if record.Content != "" {
		metadata["original_content"] = record.Content
	}
	return metadata
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= model.PreviewMaxLength {
		return content
	}
	return string(runes[:model.PreviewMaxLength])
}
