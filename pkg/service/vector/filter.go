package vector

import (
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
)

// buildFilter translates a SearchFilter into qdrant conditions. Equality
// filters map to keyword matches, the category list to an any-of integer
// match, and date bounds to a datetime range on the publish field. A nil or
// empty filter yields nil (no filtering).
func buildFilter(f *model.SearchFilter) *qdrant.Filter {
	if f == nil {
		return nil
	}

	var must []*qdrant.Condition

	if f.ChannelID != "" {
		must = append(must, qdrant.NewMatchKeyword(fieldChannelID, f.ChannelID))
	}
	if f.EventCategory != "" {
		must = append(must, qdrant.NewMatchKeyword(fieldEventCategory, f.EventCategory.String()))
	}
	if len(f.Categories) > 0 {
		must = append(must, qdrant.NewMatchInts(fieldCategories, f.Categories...))
	}
	if f.PublishedAfter != nil || f.PublishedBefore != nil {
		dateRange := &qdrant.DatetimeRange{}
		if f.PublishedAfter != nil {
			dateRange.Gte = timestamppb.New(*f.PublishedAfter)
		}
		if f.PublishedBefore != nil {
			dateRange.Lte = timestamppb.New(*f.PublishedBefore)
		}
		must = append(must, qdrant.NewDatetimeRange(fieldPublishedAt, dateRange))
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}
