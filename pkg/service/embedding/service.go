package embedding

import (
	"context"

	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
)

// maxRemoteChars bounds the text sent to the remote model. Embedding quality
// degrades little past the first thousand characters of a news article, and
// the cap keeps cost and latency predictable.
const maxRemoteChars = 1000

// defaultConcurrency is the parallelism of EmbedBatch. Each record's
// embedding is independent, so within a batch they can run concurrently;
// output order is preserved regardless.
const defaultConcurrency = 4

// Service generates embeddings via a remote model with a deterministic local
// fallback. A remote failure of any kind (quota, network, auth) is logged and
// absorbed by the fallback, never surfaced to the caller, so both paths emit
// vectors of the same fixed dimensionality.
type Service struct {
	llm         gollem.LLMClient
	dim         int
	concurrency int
}

var _ interfaces.Embedder = &Service{}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithLLM sets the remote embedding client. Without one the service runs in
// fallback-only mode.
func WithLLM(client gollem.LLMClient) Option {
	return func(s *Service) {
		s.llm = client
	}
}

// WithDimension overrides the vector dimensionality
func WithDimension(dim int) Option {
	return func(s *Service) {
		s.dim = dim
	}
}

// WithConcurrency overrides the EmbedBatch parallelism
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// New creates an embedding service
func New(opts ...Option) *Service {
	s := &Service{
		dim:         model.DefaultEmbeddingDimension,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dimension returns the fixed vector length
func (s *Service) Dimension() int {
	return s.dim
}

// Embed returns the embedding for the given text. The returned error is
// always nil; it exists to satisfy the Embedder contract for implementations
// that cannot fall back.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.llm != nil {
		if vec, err := s.embedRemote(ctx, text); err == nil {
			return vec, nil
		} else {
			logging.From(ctx).Warn("remote embedding failed, using local fallback",
				"error", err.Error(),
				"text_len", len(text))
		}
	}
	return Fallback(text, s.dim), nil
}

// EmbedBatch embeds several texts concurrently, preserving input order
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for i, text := range texts {
		eg.Go(func() error {
			vec, err := s.Embed(egCtx, text)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

func (s *Service) embedRemote(ctx context.Context, text string) ([]float32, error) {
	truncated := text
	if len([]rune(truncated)) > maxRemoteChars {
		truncated = string([]rune(truncated)[:maxRemoteChars])
	}

	embeddings, err := s.llm.GenerateEmbedding(ctx, s.dim, []string{truncated})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || len(embeddings[0]) != s.dim {
		return nil, errDimensionMismatch(len(embeddings), s.dim)
	}

	vec := make([]float32, s.dim)
	for i, v := range embeddings[0] {
		vec[i] = float32(v)
	}
	return vec, nil
}
