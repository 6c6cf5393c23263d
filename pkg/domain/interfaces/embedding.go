package interfaces

import "context"

// Embedder turns text into a fixed-length vector. Implementations must emit
// exactly Dimension() values regardless of which internal path produced them,
// so downstream storage is agnostic to remote-vs-fallback.
type Embedder interface {
	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds several texts, preserving input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed vector length
	Dimension() int
}
