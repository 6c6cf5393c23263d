package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/repository/memory"
	"github.com/olucvolkan/haberai-mvp/pkg/service/normalize"
	"github.com/olucvolkan/haberai-mvp/pkg/service/transform"
	"github.com/olucvolkan/haberai-mvp/pkg/usecase"
)

// ----- stub source reader -----

type stubSource struct {
	records  []*model.SourceRecord
	countErr error
	fetchErr error
	pingErr  error
}

func (s *stubSource) Count(ctx context.Context, dateRange *model.DateRange) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.records)), nil
}

func (s *stubSource) FetchBatch(ctx context.Context, limit int, afterID types.SourceID, dateRange *model.DateRange) ([]*model.SourceRecord, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []*model.SourceRecord
	for _, r := range s.records {
		if afterID != "" && r.ID <= afterID {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *stubSource) Ping(ctx context.Context) error  { return s.pingErr }
func (s *stubSource) Close(ctx context.Context) error { return nil }

// ----- stub vector index -----

type stubIndex struct {
	upsertErr error
	points    []*model.VectorPoint
	healthy   bool
}

func (s *stubIndex) EnsureCollection(ctx context.Context) error { return nil }

func (s *stubIndex) UpsertBatch(ctx context.Context, points []*model.VectorPoint) (int, error) {
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	s.points = append(s.points, points...)
	return len(points), nil
}

func (s *stubIndex) Search(ctx context.Context, queryText string, opts model.SearchOptions) ([]*model.SearchResult, error) {
	return nil, nil
}

func (s *stubIndex) FindByChannelAndCategory(ctx context.Context, channelID types.ChannelID, category types.EventCategory, limit int) ([]*model.SearchResult, error) {
	return nil, nil
}

func (s *stubIndex) DeleteByChannel(ctx context.Context, channelID types.ChannelID) error {
	return nil
}

func (s *stubIndex) Stats(ctx context.Context) (*model.IndexStats, error) {
	return &model.IndexStats{TotalPoints: uint64(len(s.points))}, nil
}

func (s *stubIndex) HealthCheck(ctx context.Context) bool { return s.healthy }
func (s *stubIndex) Close() error                         { return nil }

// ----- fixtures -----

func publishedRecord(id, title string) *model.SourceRecord {
	status := model.SourceStatusPublished
	return &model.SourceRecord{
		ID:      types.SourceID(id),
		Title:   title,
		Content: strings.Repeat("Article body text with enough length to pass validation. ", 2),
		Status:  &status,
	}
}

func newUseCases(source *stubSource, index *stubIndex, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	repo := memory.New()
	transformer := transform.New(normalize.StrictPolicy())

	ucOpts := []usecase.Option{
		usecase.WithRepository(repo),
		usecase.WithBatchDelay(time.Millisecond),
	}
	if index != nil {
		ucOpts = append(ucOpts, usecase.WithVectorIndex(index))
	}
	ucOpts = append(ucOpts, opts...)

	return usecase.New(source, memory.NewJobStore(), transformer, ucOpts...), repo
}

func TestMigrationRun(t *testing.T) {
	ctx := context.Background()

	t.Run("skipped records count as processed but not failed", func(t *testing.T) {
		empty := publishedRecord("03", "No body here")
		empty.Content = ""

		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
			empty,
		}}
		uc, repo := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   2,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
		gt.Value(t, job.TotalRecords).Equal(int64(3))
		gt.Value(t, job.ProcessedRecords).Equal(int64(3))
		gt.Value(t, job.SkippedRecords).Equal(int64(1))
		gt.Value(t, job.FailedRecords).Equal(int64(0))
		gt.Value(t, job.CompletedAt).NotNil()

		channel, err := repo.Channel().GetByName(ctx, "haberler")
		gt.NoError(t, err).Required()
		gt.Value(t, channel.Status).Equal(types.ChannelStatusCompleted)

		count, err := repo.Article().CountByChannel(ctx, channel.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(int64(2))
	})

	t.Run("empty source completes immediately", func(t *testing.T) {
		source := &stubSource{}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.NoError(t, err).Required()

		gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
		gt.Value(t, job.TotalRecords).Equal(int64(0))
		gt.Value(t, job.ProcessedRecords).Equal(int64(0))
	})

	t.Run("cursor advances to the last record of the final batch", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
			publishedRecord("03", "Third article title"),
		}}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   2,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, job.LastSourceID).Equal(types.SourceID("03"))
	})

	t.Run("source fetch failure is fatal but keeps progress", func(t *testing.T) {
		source := &stubSource{
			records:  []*model.SourceRecord{publishedRecord("01", "First article title")},
			fetchErr: errors.New("connection reset"),
		}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.Error(t, err)

		gt.Value(t, job.Status).Equal(types.JobStatusFailed)
		gt.Bool(t, job.ErrorMessage != "").True()
		gt.Value(t, job.CompletedAt).NotNil()
	})

	t.Run("source count failure fails the job before any batch", func(t *testing.T) {
		source := &stubSource{countErr: errors.New("no reachable servers")}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.Error(t, err)
		gt.Value(t, job.Status).Equal(types.JobStatusFailed)
		gt.Value(t, job.ProcessedRecords).Equal(int64(0))
	})

	t.Run("vector points are upserted for valid records", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
		}}
		index := &stubIndex{healthy: true}
		uc, _ := newUseCases(source, index)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   10,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, job.FailedRecords).Equal(int64(0))
		gt.Array(t, index.points).Length(2)
	})

	t.Run("whole-batch vector failure marks the batch failed and continues", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
			publishedRecord("03", "Third article title"),
		}}
		index := &stubIndex{upsertErr: errors.New("deadline exceeded")}
		uc, repo := newUseCases(source, index)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   2,
		})
		gt.NoError(t, err).Required()

		// both batches fail at the vector stage, the job itself completes
		gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
		gt.Value(t, job.ProcessedRecords).Equal(int64(3))
		gt.Value(t, job.FailedRecords).Equal(int64(3))
		gt.Array(t, job.Errors).Length(2)

		// relational writes happened before the vector stage
		channel, err := repo.Channel().GetByName(ctx, "haberler")
		gt.NoError(t, err).Required()
		count, err := repo.Article().CountByChannel(ctx, channel.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(int64(3))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
		}}
		index := &stubIndex{healthy: true}
		uc, repo := newUseCases(source, index)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			DryRun:      true,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
		gt.Value(t, job.ProcessedRecords).Equal(int64(2))
		gt.Array(t, index.points).Length(0)

		// no channel is created in a dry run
		_, err = repo.Channel().GetByName(ctx, "haberler")
		gt.Error(t, err)
	})

	t.Run("limit stops the run early", func(t *testing.T) {
		var records []*model.SourceRecord
		for i := 1; i <= 10; i++ {
			records = append(records, publishedRecord(fmt.Sprintf("%02d", i), fmt.Sprintf("Article number %d", i)))
		}
		source := &stubSource{records: records}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   3,
			Limit:       5,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
		gt.Value(t, job.ProcessedRecords).Equal(int64(5))
		gt.Value(t, job.LastSourceID).Equal(types.SourceID("05"))
	})

	t.Run("resuming after a limited run migrates the tail", func(t *testing.T) {
		var records []*model.SourceRecord
		for i := 1; i <= 6; i++ {
			records = append(records, publishedRecord(fmt.Sprintf("%02d", i), fmt.Sprintf("Article number %d", i)))
		}
		source := &stubSource{records: records}
		uc, repo := newUseCases(source, nil)

		// The limit cuts the second batch short. The cursor must stop at the
		// last processed record, not the last fetched one, so nothing is lost.
		first, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   3,
			Limit:       5,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, first.ProcessedRecords).Equal(int64(5))
		gt.Value(t, first.LastSourceID).Equal(types.SourceID("05"))

		second, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			BatchSize:   3,
			ResumeFrom:  first.LastSourceID,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, second.ProcessedRecords).Equal(int64(1))
		gt.Value(t, second.LastSourceID).Equal(types.SourceID("06"))

		channel, err := repo.Channel().GetByName(ctx, "haberler")
		gt.NoError(t, err).Required()
		count, err := repo.Article().CountByChannel(ctx, channel.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(int64(6))
	})

	t.Run("resume-from skips records at or before the cursor", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
			publishedRecord("02", "Second article title"),
			publishedRecord("03", "Third article title"),
		}}
		uc, _ := newUseCases(source, nil)

		job, err := uc.Migration.Run(ctx, usecase.MigrationOptions{
			ChannelName: "haberler",
			ResumeFrom:  types.SourceID("02"),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, job.ProcessedRecords).Equal(int64(1))
		gt.Value(t, job.LastSourceID).Equal(types.SourceID("03"))
	})

	t.Run("re-running for the same channel reuses it", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
		}}
		uc, repo := newUseCases(source, nil)

		_, err := uc.Migration.Run(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.NoError(t, err).Required()
		first, err := repo.Channel().GetByName(ctx, "haberler")
		gt.NoError(t, err).Required()

		_, err = uc.Migration.Run(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.NoError(t, err).Required()
		second, err := repo.Channel().GetByName(ctx, "haberler")
		gt.NoError(t, err).Required()

		gt.Value(t, second.ID).Equal(first.ID)
	})

	t.Run("cancelled context fails the job", func(t *testing.T) {
		source := &stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
		}}
		uc, _ := newUseCases(source, nil)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		job, err := uc.Migration.Run(cancelled, usecase.MigrationOptions{ChannelName: "haberler"})
		gt.Error(t, err)
		gt.Value(t, job.Status).Equal(types.JobStatusFailed)
	})
}

func TestMigrationStart(t *testing.T) {
	ctx := context.Background()

	source := &stubSource{records: []*model.SourceRecord{
		publishedRecord("01", "First article title"),
		publishedRecord("02", "Second article title"),
	}}
	uc, _ := newUseCases(source, nil)

	jobID, err := uc.Migration.Start(ctx, usecase.MigrationOptions{ChannelName: "haberler"})
	gt.NoError(t, err).Required()
	gt.Value(t, jobID).NotEqual(types.JobID(""))

	deadline := time.Now().Add(5 * time.Second)
	for {
		job, err := uc.Migration.Status(ctx, jobID)
		gt.NoError(t, err).Required()
		if job.Status.IsTerminal() {
			gt.Value(t, job.Status).Equal(types.JobStatusCompleted)
			gt.Value(t, job.ProcessedRecords).Equal(int64(2))
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("background job did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMigrationHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("reports both ends", func(t *testing.T) {
		uc, _ := newUseCases(&stubSource{}, &stubIndex{healthy: true})
		health := uc.Migration.HealthCheck(ctx)
		gt.Bool(t, health["source"]).True()
		gt.Bool(t, health["vector_index"]).True()
	})

	t.Run("unreachable source", func(t *testing.T) {
		uc, _ := newUseCases(&stubSource{pingErr: errors.New("down")}, &stubIndex{})
		health := uc.Migration.HealthCheck(ctx)
		gt.Bool(t, health["source"]).False()
		gt.Bool(t, health["vector_index"]).False()
	})
}
