package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// document mirrors the CMS article schema. Several body and description
// fields coexist because the schema drifted; the normalizer decides which one
// wins, this layer just carries them all across.
type document struct {
	ID             primitive.ObjectID `bson:"_id"`
	Title          string             `bson:"title"`
	Content        string             `bson:"content,omitempty"`
	Text           string             `bson:"text,omitempty"`
	Body           string             `bson:"body,omitempty"`
	Summary        string             `bson:"summary,omitempty"`
	Spot           string             `bson:"spot,omitempty"`
	SEODescription string             `bson:"seoDescription,omitempty"`
	URL            string             `bson:"url,omitempty"`
	Slug           string             `bson:"slug,omitempty"`
	Status         *int               `bson:"status,omitempty"`
	PublishedAt    *time.Time         `bson:"publishedDate,omitempty"`
	Categories     []int64            `bson:"categories,omitempty"`
	Tags           []int64            `bson:"tags,omitempty"`
	HitCount       int64              `bson:"hitCount,omitempty"`
	Media          bson.M             `bson:"media,omitempty"`
}

func (d *document) toModel() *model.SourceRecord {
	return &model.SourceRecord{
		ID:             types.SourceID(d.ID.Hex()),
		Title:          d.Title,
		Content:        d.Content,
		Text:           d.Text,
		Body:           d.Body,
		Summary:        d.Summary,
		Spot:           d.Spot,
		SEODescription: d.SEODescription,
		URL:            d.URL,
		Slug:           d.Slug,
		Status:         d.Status,
		PublishedAt:    d.PublishedAt,
		Categories:     d.Categories,
		Tags:           d.Tags,
		HitCount:       d.HitCount,
		Media:          d.Media,
	}
}
