package mongo

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Reader reads article documents from the source MongoDB collection.
// Pagination is strictly `_id > cursor` with an ascending sort, never
// skip/offset: ObjectIDs sort monotonically, so a crash mid-run resumes from
// the last seen identifier without re-scanning.
type Reader struct {
	client     *mongo.Client
	collection *mongo.Collection

	statuses       []int
	includeNoState bool
}

var _ interfaces.SourceReader = &Reader{}

// Option is a functional option for Reader configuration
type Option func(*Reader)

// WithStatusFilter restricts fetched records to the given lifecycle status
// codes. When includeNoState is true, records with no status field at all are
// also admitted (the permissive migration policy).
func WithStatusFilter(statuses []int, includeNoState bool) Option {
	return func(r *Reader) {
		r.statuses = statuses
		r.includeNoState = includeNoState
	}
}

// New connects to the source store and returns a Reader for the given
// database and collection. The default status filter admits only published
// records.
func New(ctx context.Context, uri, database, collection string, opts ...Option) (*Reader, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to source store",
			goerr.V("database", database))
	}

	r := &Reader{
		client:     client,
		collection: client.Database(database).Collection(collection),
		statuses:   []int{model.SourceStatusPublished},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

func (r *Reader) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return goerr.Wrap(err, "failed to ping source store")
	}
	return nil
}

func (r *Reader) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil {
		return goerr.Wrap(err, "failed to disconnect from source store")
	}
	return nil
}

func (r *Reader) Count(ctx context.Context, dateRange *model.DateRange) (int64, error) {
	filter, err := r.buildFilter("", dateRange)
	if err != nil {
		return 0, err
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count source records")
	}
	return count, nil
}

func (r *Reader) FetchBatch(ctx context.Context, limit int, afterID types.SourceID, dateRange *model.DateRange) ([]*model.SourceRecord, error) {
	filter, err := r.buildFilter(afterID, dateRange)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch source batch",
			goerr.V("after_id", afterID),
			goerr.V("limit", limit))
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []*model.SourceRecord
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode source record")
		}
		records = append(records, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, goerr.Wrap(err, "source cursor failed", goerr.V("after_id", afterID))
	}

	return records, nil
}

// buildFilter assembles the Mongo query for both Count and FetchBatch so the
// two always agree on which records are migration candidates.
func (r *Reader) buildFilter(afterID types.SourceID, dateRange *model.DateRange) (bson.M, error) {
	filter := bson.M{}

	if len(r.statuses) > 0 {
		statusCond := bson.M{"status": bson.M{"$in": r.statuses}}
		if r.includeNoState {
			filter["$or"] = bson.A{
				statusCond,
				bson.M{"status": bson.M{"$exists": false}},
			}
		} else {
			filter["status"] = statusCond["status"]
		}
	}

	if afterID != "" {
		oid, err := primitive.ObjectIDFromHex(afterID.String())
		if err != nil {
			return nil, goerr.Wrap(err, "invalid resumption cursor", goerr.V("after_id", afterID))
		}
		filter["_id"] = bson.M{"$gt": oid}
	}

	if !dateRange.IsZero() {
		dateCond := bson.M{}
		if dateRange.From != nil {
			dateCond["$gte"] = *dateRange.From
		}
		if dateRange.To != nil {
			dateCond["$lte"] = *dateRange.To
		}
		filter["publishedDate"] = dateCond
	}

	return filter, nil
}
