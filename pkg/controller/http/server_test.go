package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	httpctrl "github.com/olucvolkan/haberai-mvp/pkg/controller/http"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/repository/memory"
	"github.com/olucvolkan/haberai-mvp/pkg/service/normalize"
	"github.com/olucvolkan/haberai-mvp/pkg/service/transform"
	"github.com/olucvolkan/haberai-mvp/pkg/usecase"
)

type stubSource struct {
	records []*model.SourceRecord
}

func (s *stubSource) Count(ctx context.Context, dateRange *model.DateRange) (int64, error) {
	return int64(len(s.records)), nil
}

func (s *stubSource) FetchBatch(ctx context.Context, limit int, afterID types.SourceID, dateRange *model.DateRange) ([]*model.SourceRecord, error) {
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

func (s *stubSource) Ping(ctx context.Context) error  { return nil }
func (s *stubSource) Close(ctx context.Context) error { return nil }

type stubIndex struct {
	results []*model.SearchResult
}

func (s *stubIndex) EnsureCollection(ctx context.Context) error { return nil }

func (s *stubIndex) UpsertBatch(ctx context.Context, points []*model.VectorPoint) (int, error) {
	return len(points), nil
}

func (s *stubIndex) Search(ctx context.Context, queryText string, opts model.SearchOptions) ([]*model.SearchResult, error) {
	return s.results, nil
}

func (s *stubIndex) FindByChannelAndCategory(ctx context.Context, channelID types.ChannelID, category types.EventCategory, limit int) ([]*model.SearchResult, error) {
	return s.results, nil
}

func (s *stubIndex) DeleteByChannel(ctx context.Context, channelID types.ChannelID) error {
	return nil
}

func (s *stubIndex) Stats(ctx context.Context) (*model.IndexStats, error) {
	return &model.IndexStats{}, nil
}

func (s *stubIndex) HealthCheck(ctx context.Context) bool { return true }
func (s *stubIndex) Close() error                         { return nil }

func newTestServer(source *stubSource, index *stubIndex) *httpctrl.Server {
	opts := []usecase.Option{
		usecase.WithRepository(memory.New()),
		usecase.WithBatchDelay(time.Millisecond),
	}
	if index != nil {
		opts = append(opts, usecase.WithVectorIndex(index))
	}
	uc := usecase.New(source, memory.NewJobStore(), transform.New(normalize.StrictPolicy()), opts...)
	return httpctrl.New(uc)
}

func publishedRecord(id, title string) *model.SourceRecord {
	status := model.SourceStatusPublished
	return &model.SourceRecord{
		ID:      types.SourceID(id),
		Title:   title,
		Content: strings.Repeat("Article body text with enough length to pass validation. ", 2),
		Status:  &status,
	}
}

func TestStartMigration(t *testing.T) {
	t.Run("accepted and observable via status", func(t *testing.T) {
		srv := newTestServer(&stubSource{records: []*model.SourceRecord{
			publishedRecord("01", "First article title"),
		}}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/migrations",
			strings.NewReader(`{"channel_name":"haberler"}`))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusAccepted)

		var body map[string]string
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		jobID := body["job_id"]
		gt.Value(t, jobID).NotEqual("")

		deadline := time.Now().Add(5 * time.Second)
		for {
			req := httptest.NewRequest(http.MethodGet, "/api/migrations/"+jobID, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			gt.Value(t, rec.Code).Equal(http.StatusOK)

			var job struct {
				Status    string `json:"status"`
				Processed int64  `json:"processed_records"`
			}
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job)).Required()
			if types.JobStatus(job.Status).IsTerminal() {
				gt.Value(t, job.Status).Equal(types.JobStatusCompleted.String())
				gt.Value(t, job.Processed).Equal(int64(1))
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("job did not finish in time")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("rejects missing channel name", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/migrations", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/migrations", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rejects invalid date", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/migrations",
			strings.NewReader(`{"channel_name":"haberler","date_from":"15/03/2024"}`))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestJobStatusNotFound(t *testing.T) {
	srv := newTestServer(&stubSource{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/migrations/"+types.NewJobID().String(), nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestSearchEndpoint(t *testing.T) {
	index := &stubIndex{results: []*model.SearchResult{
		{
			ID:    types.PointID("p1"),
			Score: 0.93,
			Payload: model.VectorPayload{
				Title:         "Budget approved",
				Preview:       "the assembly approved",
				ChannelID:     "ch-1",
				EventCategory: types.EventCategoryPolitics,
			},
		},
	}}

	t.Run("returns ranked results", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, index)

		req := httptest.NewRequest(http.MethodGet, "/api/search?q=budget&limit=5", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Results []struct {
				Title         string  `json:"title"`
				Score         float32 `json:"score"`
				EventCategory string  `json:"event_category"`
			} `json:"results"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Array(t, body.Results).Length(1)
		gt.Value(t, body.Results[0].Title).Equal("Budget approved")
		gt.Value(t, body.Results[0].EventCategory).Equal("politics")
	})

	t.Run("requires a query", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, index)

		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("rejects non-numeric limit", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, index)

		req := httptest.NewRequest(http.MethodGet, "/api/search?q=x&limit=abc", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("no vector index configured", func(t *testing.T) {
		srv := newTestServer(&stubSource{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubSource{}, &stubIndex{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var health map[string]bool
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health)).Required()
	gt.Bool(t, health["source"]).True()
	gt.Bool(t, health["vector_index"]).True()
}
