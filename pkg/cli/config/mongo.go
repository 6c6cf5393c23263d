package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/source/mongo"
)

// Mongo holds CLI flags for the source document store
type Mongo struct {
	uri        string
	database   string
	collection string
}

// Flags returns CLI flags for MongoDB source configuration
func (m *Mongo) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mongo-uri",
			Usage:       "MongoDB connection URI of the source CMS",
			Value:       "mongodb://localhost:27017",
			Sources:     cli.EnvVars("HABERAI_MONGO_URI"),
			Destination: &m.uri,
		},
		&cli.StringFlag{
			Name:        "mongo-database",
			Usage:       "Source database name",
			Required:    true,
			Sources:     cli.EnvVars("HABERAI_MONGO_DATABASE"),
			Destination: &m.database,
		},
		&cli.StringFlag{
			Name:        "mongo-collection",
			Usage:       "Source collection holding the article documents",
			Value:       "contents",
			Sources:     cli.EnvVars("HABERAI_MONGO_COLLECTION"),
			Destination: &m.collection,
		},
	}
}

// LogAttrs returns log attributes for the MongoDB configuration. The URI is
// omitted since it may embed credentials.
func (m *Mongo) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("database", m.database),
		slog.String("collection", m.collection),
	}
}

// Configure connects to the source store. The status filter pushed down to
// the store matches the validation mode so ineligible records are not even
// fetched: strict reads published records only, permissive also reads drafts
// and records with no status field.
func (m *Mongo) Configure(ctx context.Context, mode types.ValidationMode) (*mongo.Reader, error) {
	var opts []mongo.Option
	switch mode {
	case types.ValidationModeStrict:
		opts = append(opts, mongo.WithStatusFilter([]int{model.SourceStatusPublished}, false))
	case types.ValidationModePermissive:
		opts = append(opts, mongo.WithStatusFilter([]int{model.SourceStatusDraft, model.SourceStatusPublished}, true))
	}

	reader, err := mongo.New(ctx, m.uri, m.database, m.collection, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to source store",
			goerr.V("database", m.database),
			goerr.V("collection", m.collection),
		)
	}

	return reader, nil
}
