package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/usecase"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/errutil"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
)

// Server is the thin job-control surface over the migration core: start a
// job, poll its snapshot, query the index, check health. Anything heavier
// (dashboards, auth) lives elsewhere.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

// New creates the HTTP server around the use case layer
func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/migrations", s.handleStartMigration)
		r.Get("/migrations/{jobID}", s.handleJobStatus)
		r.Get("/search", s.handleSearch)
	})
	r.Get("/health", s.handleHealth)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// startMigrationRequest is the body of POST /api/migrations
type startMigrationRequest struct {
	ChannelName string `json:"channel_name"`
	BatchSize   int    `json:"batch_size"`
	DryRun      bool   `json:"dry_run"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Limit       int64  `json:"limit"`
	ResumeFrom  string `json:"resume_from"`
}

func (s *Server) handleStartMigration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req startMigrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.ChannelName == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("channel_name is required"), http.StatusBadRequest)
		return
	}

	dateRange, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	jobID, err := s.uc.Migration.Start(ctx, usecase.MigrationOptions{
		ChannelName: req.ChannelName,
		BatchSize:   req.BatchSize,
		DateRange:   dateRange,
		DryRun:      req.DryRun,
		Limit:       req.Limit,
		ResumeFrom:  types.SourceID(req.ResumeFrom),
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusAccepted, map[string]string{"job_id": jobID.String()})
}

// jobResponse is the snapshot shape of GET /api/migrations/{jobID}. Raw
// stack traces never pass through here; ErrorMessage is the human-readable
// failure summary.
type jobResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	ChannelName  string     `json:"channel_name"`
	DryRun       bool       `json:"dry_run"`
	Total        int64      `json:"total_records"`
	Processed    int64      `json:"processed_records"`
	Skipped      int64      `json:"skipped_records"`
	Failed       int64      `json:"failed_records"`
	Errors       []string   `json:"errors,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	LastSourceID string     `json:"last_source_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toJobResponse(job *model.MigrationJob) jobResponse {
	return jobResponse{
		ID:           job.ID.String(),
		Status:       job.Status.String(),
		ChannelName:  job.ChannelName,
		DryRun:       job.DryRun,
		Total:        job.TotalRecords,
		Processed:    job.ProcessedRecords,
		Skipped:      job.SkippedRecords,
		Failed:       job.FailedRecords,
		Errors:       job.Errors,
		ErrorMessage: job.ErrorMessage,
		LastSourceID: job.LastSourceID.String(),
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID := types.JobID(chi.URLParam(r, "jobID"))
	job, err := s.uc.Migration.Status(ctx, jobID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toJobResponse(job))
}

type searchResultResponse struct {
	ID            string  `json:"id"`
	Score         float32 `json:"score"`
	Title         string  `json:"title"`
	Preview       string  `json:"preview"`
	ChannelID     string  `json:"channel_id"`
	EventCategory string  `json:"event_category"`
	PublishedAt   string  `json:"published_at,omitempty"`
	URL           string  `json:"url,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if query == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("q parameter is required"), http.StatusBadRequest)
		return
	}

	opts := model.SearchOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid limit"), http.StatusBadRequest)
			return
		}
		opts.Limit = limit
	}

	filter := &model.SearchFilter{
		ChannelID:     r.URL.Query().Get("channel_id"),
		EventCategory: types.EventCategory(r.URL.Query().Get("category")),
	}
	if filter.ChannelID != "" || filter.EventCategory != "" {
		opts.Filter = filter
	}

	results, err := s.uc.Search.Search(ctx, query, opts)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	response := make([]searchResultResponse, 0, len(results))
	for _, result := range results {
		response = append(response, searchResultResponse{
			ID:            result.ID.String(),
			Score:         result.Score,
			Title:         result.Payload.Title,
			Preview:       result.Payload.Preview,
			ChannelID:     result.Payload.ChannelID,
			EventCategory: result.Payload.EventCategory.String(),
			PublishedAt:   result.Payload.PublishedAt,
			URL:           result.Payload.URL,
		})
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"results": response})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := s.uc.Migration.HealthCheck(ctx)
	status := http.StatusOK
	for _, ok := range health {
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(ctx, w, status, health)
}

func parseDateRange(from, to string) (*model.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}

	dateRange := &model.DateRange{}
	if from != "" {
		t, err := parseDate(from)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid date_from", goerr.V("value", from))
		}
		dateRange.From = &t
	}
	if to != "" {
		t, err := parseDate(to)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid date_to", goerr.V("value", to))
		}
		dateRange.To = &t
	}
	return dateRange, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("Failed to encode response", "error", err.Error())
	}
}
