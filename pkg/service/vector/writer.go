package vector

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qdrant/go-client/qdrant"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
)

// Writer owns the article vector collection: lifecycle, batch upserts,
// filtered similarity search and deletion. It is the only component that
// touches the collection.
type Writer struct {
	client     *qdrant.Client
	collection string
	embedder   interfaces.Embedder
}

var _ interfaces.VectorIndex = &Writer{}

// New creates a Writer for the given collection. The embedder supplies
// vectors for points that arrive without one and for search queries; its
// dimension defines the collection's vector size.
func New(client *qdrant.Client, collection string, embedder interfaces.Embedder) *Writer {
	return &Writer{
		client:     client,
		collection: collection,
		embedder:   embedder,
	}
}

// payloadIndexes are the secondary indexes created alongside the collection
// so that filtered search stays fast as the collection grows
var payloadIndexes = []struct {
	field     string
	fieldType qdrant.FieldType
}{
	{fieldChannelID, qdrant.FieldType_FieldTypeKeyword},
	{fieldCategories, qdrant.FieldType_FieldTypeInteger},
	{fieldTags, qdrant.FieldType_FieldTypeInteger},
	{fieldEventCategory, qdrant.FieldType_FieldTypeKeyword},
	{fieldPublishedAt, qdrant.FieldType_FieldTypeDatetime},
}

// EnsureCollection creates the collection with cosine distance and the
// embedder's vector size if it does not exist, plus the payload indexes.
// Idempotent: an existing collection is left untouched.
func (w *Writer) EnsureCollection(ctx context.Context) error {
	exists, err := w.client.CollectionExists(ctx, w.collection)
	if err != nil {
		return goerr.Wrap(err, "failed to check collection", goerr.V("collection", w.collection))
	}
	if exists {
		return nil
	}

	err = w.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: w.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(w.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create collection", goerr.V("collection", w.collection))
	}

	for _, idx := range payloadIndexes {
		_, err := w.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: w.collection,
			FieldName:      idx.field,
			FieldType:      idx.fieldType.Enum(),
		})
		if err != nil {
			return goerr.Wrap(err, "failed to create payload index",
				goerr.V("collection", w.collection),
				goerr.V("field", idx.field))
		}
	}

	logging.From(ctx).Info("Vector collection created",
		"collection", w.collection,
		"dimension", w.embedder.Dimension())

	return nil
}

// UpsertBatch writes points in a single call with wait-for-completion
// semantics. Points without a vector are embedded first in one EmbedBatch
// call; points whose embedding cannot be computed are skipped rather than
// failing the batch. Returns the number of points actually stored.
func (w *Writer) UpsertBatch(ctx context.Context, points []*model.VectorPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	structs, err := w.buildPointStructs(ctx, points)
	if err != nil {
		return 0, err
	}
	if len(structs) == 0 {
		return 0, nil
	}

	_, err = w.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: w.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to upsert points",
			goerr.V("collection", w.collection),
			goerr.V("count", len(structs)))
	}

	return len(structs), nil
}

// buildPointStructs embeds the points that arrived without a vector and
// converts the batch to qdrant point structs. Missing vectors are fetched in
// a single EmbedBatch call; a vector of the wrong length is a hard error
// since the collection has a fixed dimension.
func (w *Writer) buildPointStructs(ctx context.Context, points []*model.VectorPoint) ([]*qdrant.PointStruct, error) {
	vectors := make([][]float32, len(points))
	var pendingIdx []int
	var pendingTexts []string
	for i, point := range points {
		if len(point.Vector) == 0 {
			pendingIdx = append(pendingIdx, i)
			pendingTexts = append(pendingTexts, point.EmbeddingText())
			continue
		}
		vectors[i] = point.Vector
	}

	if len(pendingTexts) > 0 {
		embedded, err := w.embedder.EmbedBatch(ctx, pendingTexts)
		if err != nil {
			logging.From(ctx).Warn("skipping points, batch embedding failed",
				"count", len(pendingTexts),
				"error", err.Error())
		} else {
			for j, i := range pendingIdx {
				vectors[i] = embedded[j]
			}
		}
	}

	dim := w.embedder.Dimension()
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for i, point := range points {
		vec := vectors[i]
		if len(vec) == 0 {
			continue
		}
		if len(vec) != dim {
			return nil, goerr.New("vector dimension mismatch",
				goerr.V("point_id", point.ID),
				goerr.V("got", len(vec)),
				goerr.V("want", dim))
		}

		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(point.ID.String()),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(toPayloadMap(point.Payload)),
		})
	}

	return structs, nil
}

// Search embeds the query text and returns ranked results ordered by
// descending similarity, truncated to opts.Limit and excluding hits below
// opts.ScoreThreshold.
func (w *Writer) Search(ctx context.Context, queryText string, opts model.SearchOptions) ([]*model.SearchResult, error) {
	queryVec, err := w.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := &qdrant.QueryPoints{
		CollectionName: w.collection,
		Query:          qdrant.NewQuery(queryVec...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter:         buildFilter(opts.Filter),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if opts.ScoreThreshold > 0 {
		query.ScoreThreshold = qdrant.PtrOf(opts.ScoreThreshold)
	}

	scored, err := w.client.Query(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "vector search failed", goerr.V("collection", w.collection))
	}

	results := make([]*model.SearchResult, 0, len(scored))
	for _, point := range scored {
		results = append(results, &model.SearchResult{
			ID:      types.PointID(point.GetId().GetUuid()),
			Score:   point.GetScore(),
			Payload: fromPayloadMap(point.GetPayload()),
		})
	}

	return results, nil
}

// FindByChannelAndCategory scrolls points matching the channel and event
// category exactly. Not a similarity search; scores are fixed at 1.0.
func (w *Writer) FindByChannelAndCategory(ctx context.Context, channelID types.ChannelID, category types.EventCategory, limit int) ([]*model.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	points, err := w.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: w.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeyword(fieldChannelID, channelID.String()),
				qdrant.NewMatchKeyword(fieldEventCategory, category.String()),
			},
		},
		Limit:       qdrant.PtrOf(uint32(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "scroll failed",
			goerr.V("channel_id", channelID),
			goerr.V("category", category))
	}

	results := make([]*model.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, &model.SearchResult{
			ID:      types.PointID(point.GetId().GetUuid()),
			Score:   1.0,
			Payload: fromPayloadMap(point.GetPayload()),
		})
	}

	return results, nil
}

// DeleteByChannel removes all points belonging to a channel
func (w *Writer) DeleteByChannel(ctx context.Context, channelID types.ChannelID) error {
	_, err := w.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: w.collection,
		Wait:           qdrant.PtrOf(true),
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatchKeyword(fieldChannelID, channelID.String()),
			},
		}),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete channel points", goerr.V("channel_id", channelID))
	}
	return nil
}

// Stats returns a snapshot of collection health
func (w *Writer) Stats(ctx context.Context) (*model.IndexStats, error) {
	info, err := w.client.GetCollectionInfo(ctx, w.collection)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get collection info", goerr.V("collection", w.collection))
	}

	return &model.IndexStats{
		TotalPoints:   info.GetPointsCount(),
		IndexedPoints: info.GetIndexedVectorsCount(),
		Status:        info.GetStatus().String(),
	}, nil
}

// HealthCheck reports whether the index is reachable
func (w *Writer) HealthCheck(ctx context.Context) bool {
	if _, err := w.client.HealthCheck(ctx); err != nil {
		logging.From(ctx).Warn("vector index health check failed", "error", err.Error())
		return false
	}
	return true
}

// Close releases the underlying client connection
func (w *Writer) Close() error {
	return w.client.Close()
}
