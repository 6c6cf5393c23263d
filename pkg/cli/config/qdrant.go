package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/service/vector"
)

// Qdrant holds CLI flags for the vector index
type Qdrant struct {
	host       string
	port       int
	apiKey     string
	useTLS     bool
	collection string
	dimension  int
}

// Flags returns CLI flags for Qdrant configuration
func (q *Qdrant) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "qdrant-host",
			Usage:       "Qdrant server host",
			Value:       "localhost",
			Sources:     cli.EnvVars("HABERAI_QDRANT_HOST"),
			Destination: &q.host,
		},
		&cli.IntFlag{
			Name:        "qdrant-port",
			Usage:       "Qdrant gRPC port",
			Value:       6334,
			Sources:     cli.EnvVars("HABERAI_QDRANT_PORT"),
			Destination: &q.port,
		},
		&cli.StringFlag{
			Name:        "qdrant-api-key",
			Usage:       "Qdrant API key (optional)",
			Sources:     cli.EnvVars("HABERAI_QDRANT_API_KEY"),
			Destination: &q.apiKey,
		},
		&cli.BoolFlag{
			Name:        "qdrant-tls",
			Usage:       "Use TLS for the Qdrant connection",
			Sources:     cli.EnvVars("HABERAI_QDRANT_TLS"),
			Destination: &q.useTLS,
		},
		&cli.StringFlag{
			Name:        "qdrant-collection",
			Usage:       "Collection name for article vectors",
			Value:       "articles",
			Sources:     cli.EnvVars("HABERAI_QDRANT_COLLECTION"),
			Destination: &q.collection,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Vector dimension of the collection",
			Value:       model.DefaultEmbeddingDimension,
			Sources:     cli.EnvVars("HABERAI_EMBEDDING_DIMENSION"),
			Destination: &q.dimension,
		},
	}
}

// LogAttrs returns log attributes for the Qdrant configuration
func (q *Qdrant) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("host", q.host),
		slog.Int("port", q.port),
		slog.Bool("tls", q.useTLS),
		slog.String("collection", q.collection),
		slog.Int("dimension", q.dimension),
	}
}

// Dimension returns the configured vector dimension
func (q *Qdrant) Dimension() int {
	return q.dimension
}

// Configure connects to Qdrant, ensures the target collection exists and
// returns the index writer. The caller is responsible for calling Close().
func (q *Qdrant) Configure(ctx context.Context, embedder interfaces.Embedder) (interfaces.VectorIndex, error) {
	if q.dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive",
			goerr.V("dimension", q.dimension))
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   q.host,
		Port:   q.port,
		APIKey: q.apiKey,
		UseTLS: q.useTLS,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create qdrant client",
			goerr.V("host", q.host),
			goerr.V("port", q.port),
		)
	}

	writer := vector.New(client, q.collection, embedder)
	if err := writer.EnsureCollection(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to ensure qdrant collection",
			goerr.V("collection", q.collection),
		)
	}

	return writer, nil
}
