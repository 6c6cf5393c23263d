package vector

import (
	"github.com/qdrant/go-client/qdrant"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Payload field names of the article collection. Search filters and payload
// indexes reference these, so they are defined once.
const (
	fieldChannelID      = "channel_id"
	fieldTitle          = "title"
	fieldContent        = "content"
	fieldPreview        = "preview"
	fieldPublishedAt    = "published_at"
	fieldCategories     = "categories"
	fieldTags           = "tags"
	fieldEventCategory  = "event_category"
	fieldPoliticalScore = "political_score"
	fieldURL            = "url"
	fieldSourceID       = "source_id"
)

// toPayloadMap converts a VectorPayload for storage. Optional fields are
// omitted rather than stored as empty values.
func toPayloadMap(p model.VectorPayload) map[string]any {
	payload := map[string]any{
		fieldChannelID:     p.ChannelID,
		fieldTitle:         p.Title,
		fieldContent:       p.Content,
		fieldPreview:       p.Preview,
		fieldEventCategory: p.EventCategory.String(),
	}
	if p.PublishedAt != "" {
		payload[fieldPublishedAt] = p.PublishedAt
	}
	if len(p.Categories) > 0 {
		payload[fieldCategories] = anyList(p.Categories)
	}
	if len(p.Tags) > 0 {
		payload[fieldTags] = anyList(p.Tags)
	}
	if p.PoliticalScore != nil {
		payload[fieldPoliticalScore] = *p.PoliticalScore
	}
	if p.URL != "" {
		payload[fieldURL] = p.URL
	}
	if p.SourceID != "" {
		payload[fieldSourceID] = p.SourceID
	}
	return payload
}

// fromPayloadMap reconstructs a VectorPayload from stored qdrant values
func fromPayloadMap(values map[string]*qdrant.Value) model.VectorPayload {
	p := model.VectorPayload{
		ChannelID:     values[fieldChannelID].GetStringValue(),
		Title:         values[fieldTitle].GetStringValue(),
		Content:       values[fieldContent].GetStringValue(),
		Preview:       values[fieldPreview].GetStringValue(),
		PublishedAt:   values[fieldPublishedAt].GetStringValue(),
		EventCategory: types.EventCategory(values[fieldEventCategory].GetStringValue()),
		URL:           values[fieldURL].GetStringValue(),
		SourceID:      values[fieldSourceID].GetStringValue(),
	}

	if v, ok := values[fieldPoliticalScore]; ok {
		score := v.GetDoubleValue()
		p.PoliticalScore = &score
	}
	p.Categories = int64List(values[fieldCategories])
	p.Tags = int64List(values[fieldTags])

	return p
}

// anyList widens an int64 slice for qdrant's value conversion, which only
// accepts []any for list payloads
func anyList(values []int64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func int64List(v *qdrant.Value) []int64 {
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	out := make([]int64, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		out = append(out, item.GetIntegerValue())
	}
	return out
}
